package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/procureai/engine/internal/domain"
)

// GetDocument returns the metadata record for a document.
// GET /v1/documents/:document_id
func (h *Handler) GetDocument(c echo.Context) error {
	doc, err := h.service.GetDocument(c.Request().Context(), c.Param("document_id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, doc)
}

// SearchDocuments runs the structured metadata search.
// GET /v1/documents?query=...&document_type=...&date_range=from..to
func (h *Handler) SearchDocuments(c echo.Context) error {
	docs, err := h.service.SearchDocuments(c.Request().Context(),
		c.QueryParam("query"),
		c.QueryParam("document_type"),
		c.QueryParam("date_range"))
	if err != nil {
		return errorResponse(c, err)
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"results":      docs,
		"result_count": len(docs),
	})
}
