package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/procureai/engine/internal/domain"
)

// CreateSession allocates a new conversation session.
// POST /v1/sessions
func (h *Handler) CreateSession(c echo.Context) error {
	session, err := h.service.CreateSession(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, session)
}

// SubmitOperation executes a structured operation inside a session.
// POST /v1/sessions/:session_id/submit
func (h *Handler) SubmitOperation(c echo.Context) error {
	sessionID := c.Param("session_id")

	var req domain.SubmitRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Operation == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "operation is required"})
	}

	result, err := h.service.Submit(c.Request().Context(), sessionID, req.Operation, req.Params)
	if err != nil {
		return errorResponse(c, err)
	}
	// Gateway timeouts and failures are part of the result, not transport
	// errors; the caller inspects the run status and decides about retries.
	return c.JSON(http.StatusOK, result)
}

// ListRuns returns the exchange history of a session in submission order.
// GET /v1/sessions/:session_id/runs
func (h *Handler) ListRuns(c echo.Context) error {
	runs, err := h.service.ListRuns(c.Request().Context(), c.Param("session_id"))
	if err != nil {
		return errorResponse(c, err)
	}
	if runs == nil {
		runs = []domain.Run{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"runs": runs,
	})
}
