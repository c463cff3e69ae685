// Package v1 provides the thin HTTP facade over the engine. It binds
// requests, delegates to the service and maps typed errors onto status
// codes; no authentication or upload buffering lives here.
package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/procureai/engine/internal/domain"
	"github.com/procureai/engine/internal/service"
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
	e.POST("/v1/sessions", h.CreateSession)
	e.POST("/v1/sessions/:session_id/submit", h.SubmitOperation)
	e.GET("/v1/sessions/:session_id/runs", h.ListRuns)

	e.GET("/v1/documents", h.SearchDocuments)
	e.GET("/v1/documents/:document_id", h.GetDocument)

	e.GET("/v1/dashboard", h.GetDashboard)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// errorResponse maps engine errors onto HTTP status codes.
func errorResponse(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrDocumentNotFound), errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidOperation), errors.Is(err, domain.ErrMissingParameter):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrOperationBlocked):
		status = http.StatusForbidden
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}
