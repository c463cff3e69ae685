package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetDashboard returns summary statistics over the metadata store.
// GET /v1/dashboard
func (h *Handler) GetDashboard(c echo.Context) error {
	stats, err := h.service.Dashboard(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
