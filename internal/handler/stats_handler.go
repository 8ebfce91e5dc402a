package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"newsdesk/internal/service"
)

// StatsHandler serves dashboard figures.
type StatsHandler struct {
	statsService service.StatsService
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetStats godoc
// @Summary Summary counts
// @Tags stats
// @Produce json
// @Success 200 {object} model.Stats
// @Router /stats [get]
func (h *StatsHandler) GetStats(c echo.Context) error {
	stats, err := h.statsService.Summary(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

// GetAnalytics godoc
// @Summary Analytics breakdown
// @Tags stats
// @Produce json
// @Success 200 {object} model.Analytics
// @Router /stats/analytics [get]
func (h *StatsHandler) GetAnalytics(c echo.Context) error {
	analytics, err := h.statsService.Analytics(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, analytics)
}
