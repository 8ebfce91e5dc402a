package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"newsdesk/internal/service"
)

// SeedHandler handles seed data endpoints.
type SeedHandler struct {
	demoService service.DemoService
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(demoService service.DemoService) *SeedHandler {
	return &SeedHandler{demoService: demoService}
}

// SeedResponse represents the seed response.
type SeedResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// SeedPersonas godoc
// @Summary Create profiles for demo personas that have none
// @Tags seed
// @Produce json
// @Success 200 {object} SeedResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /demo/seed [post]
func (h *SeedHandler) SeedPersonas(c echo.Context) error {
	count, err := h.demoService.SeedPersonas(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, SeedResponse{
		Message: "Demo personas seeded successfully",
		Count:   count,
	})
}
