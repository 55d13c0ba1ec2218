// Package http provides the HTTP server implementation for answerd.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/answerhive/answerd/internal/service"
	v1 "github.com/answerhive/answerd/internal/transport/http/v1"
)

// NewServer creates and configures the HTTP server serving the query API.
func NewServer(svc *service.Service) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Handlers
	handler := v1.NewHandler(svc)
	handler.RegisterRoutes(e)

	return e
}
