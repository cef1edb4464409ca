package mockapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rentgrid/backoffice/internal/core/domain"
)

// DashboardHandler serves the aggregate analytics endpoints.
type DashboardHandler struct {
	store *Store
}

func NewDashboardHandler(store *Store) *DashboardHandler {
	return &DashboardHandler{store: store}
}

// Summary handles GET /api/dashboard/summary.
func (h *DashboardHandler) Summary(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true, "summary": h.store.Summary()})
}

// Charts handles GET /api/dashboard/charts?range=7d|30d|90d.
func (h *DashboardHandler) Charts(c echo.Context) error {
	chartRange := c.QueryParam("range")
	if chartRange == "" {
		chartRange = "7d"
	}
	if !domain.ValidChartRange(chartRange) {
		return echo.NewHTTPError(http.StatusBadRequest, "range must be one of: 7d 30d 90d")
	}

	days := 7
	switch chartRange {
	case "30d":
		days = 30
	case "90d":
		days = 90
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "charts": h.store.Charts(days)})
}
