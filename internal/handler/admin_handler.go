package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"newsdesk/internal/model"
	"newsdesk/internal/service"
)

// AdminHandler handles admin profile endpoints.
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// ListProfiles godoc
// @Summary List admin profiles
// @Tags admin
// @Produce json
// @Success 200 {array} model.AdminProfile
// @Router /admin/profile [get]
func (h *AdminHandler) ListProfiles(c echo.Context) error {
	profiles, err := h.adminService.ListProfiles(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, profiles)
}

// GetProfile godoc
// @Summary Get admin profile for a user
// @Tags admin
// @Produce json
// @Param userId path string true "User UID"
// @Success 200 {object} model.AdminProfile
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/profile/{userId} [get]
func (h *AdminHandler) GetProfile(c echo.Context) error {
	profile, err := h.adminService.GetProfile(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// CreateProfile godoc
// @Summary Create admin profile
// @Tags admin
// @Accept json
// @Produce json
// @Param profile body model.CreateAdminProfileInput true "Admin profile payload"
// @Success 201 {object} model.AdminProfile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/profile [post]
func (h *AdminHandler) CreateProfile(c echo.Context) error {
	var input model.CreateAdminProfileInput
	if err := bindAndValidate(c, &input); err != nil {
		return err
	}
	profile, err := h.adminService.CreateProfile(c.Request().Context(), input)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, profile)
}

// UpdateProfile godoc
// @Summary Replace the privileges of an admin profile
// @Tags admin
// @Accept json
// @Produce json
// @Param userId path string true "User UID"
// @Param profile body model.AdminProfilePatch true "Fields to change"
// @Success 200 {object} model.AdminProfile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/profile/{userId} [put]
func (h *AdminHandler) UpdateProfile(c echo.Context) error {
	var patch model.AdminProfilePatch
	if err := bindAndValidate(c, &patch); err != nil {
		return err
	}
	profile, err := h.adminService.UpdateProfile(c.Request().Context(), c.Param("userId"), patch)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, profile)
}
