package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/answerhive/answerd/internal/domain"
)

// Query answers a question, carrying conversational memory per session.
// POST /query
func (h *Handler) Query(c echo.Context) error {
	var req domain.QueryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
	}
	if req.Query == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "no query provided"})
	}

	ctx := c.Request().Context()

	ans, err := h.service.Answer(ctx, req.Query, req.SessionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, domain.QueryResponse{
		Answer:       ans.Text,
		SessionID:    ans.SessionID,
		SourcesCount: ans.SourcesCount,
	})
}

// GetSessionMessages returns the stored transcript for a session.
// GET /v1/sessions/:session_id/messages
func (h *Handler) GetSessionMessages(c echo.Context) error {
	sessionID := c.Param("session_id")

	messages := h.service.Transcript(sessionID)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"messages":   messages,
	})
}
