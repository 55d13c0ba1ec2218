// Package v1 provides the HTTP handlers for the answerd query API.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/answerhive/answerd/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/query", h.Query)
	e.GET("/v1/sessions/:session_id/messages", h.GetSessionMessages)
	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
