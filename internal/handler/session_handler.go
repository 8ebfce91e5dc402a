package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"newsdesk/internal/auth"
	"newsdesk/internal/errors"
	"newsdesk/internal/model"
	"newsdesk/internal/service"
)

// SessionContextKey is where the session guard stores validated claims.
const SessionContextKey = "session"

// SessionHandler handles demo sign-in and bearer session endpoints.
type SessionHandler struct {
	demoService service.DemoService
	userService service.UserService
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(demoService service.DemoService, userService service.UserService) *SessionHandler {
	return &SessionHandler{demoService: demoService, userService: userService}
}

// DemoSessionRequest selects the persona to sign in as.
type DemoSessionRequest struct {
	PersonaID string `json:"personaId" validate:"required"`
}

// SessionResponse describes the identity behind a bearer session. Profile is
// null until the identity has completed profile setup.
type SessionResponse struct {
	Identity auth.Identity `json:"identity"`
	Profile  *model.User   `json:"profile"`
}

// ListPersonas godoc
// @Summary List demo personas
// @Tags session
// @Produce json
// @Success 200 {array} model.Persona
// @Router /demo/personas [get]
func (h *SessionHandler) ListPersonas(c echo.Context) error {
	return c.JSON(http.StatusOK, h.demoService.Personas())
}

// IssueDemoSession godoc
// @Summary Sign in as a demo persona
// @Tags session
// @Accept json
// @Produce json
// @Param request body DemoSessionRequest true "Persona selection"
// @Success 201 {object} model.DemoSession
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /demo/session [post]
func (h *SessionHandler) IssueDemoSession(c echo.Context) error {
	var req DemoSessionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	session, err := h.demoService.IssueSession(c.Request().Context(), req.PersonaID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, session)
}

// Me godoc
// @Summary Identity and profile behind the bearer session
// @Tags session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SessionResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /session/me [get]
func (h *SessionHandler) Me(c echo.Context) error {
	claims, err := sessionClaims(c)
	if err != nil {
		return respondError(err)
	}

	resp := SessionResponse{Identity: claims.Identity()}
	profile, err := h.userService.GetUserByUID(c.Request().Context(), claims.Subject)
	switch {
	case err == nil:
		resp.Profile = profile
	case !errors.Is(err, errors.ErrUserNotFound):
		return respondError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// RevokeResponse reports whether the server will reject the token from now on.
type RevokeResponse struct {
	Message string `json:"message"`
	Revoked bool   `json:"revoked"`
}

// Revoke godoc
// @Summary Sign out the bearer session
// @Description Without a revocation cache the session ends only client side: revoked is false and the token stays valid until it expires.
// @Tags session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} RevokeResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /session [delete]
func (h *SessionHandler) Revoke(c echo.Context) error {
	claims, err := sessionClaims(c)
	if err != nil {
		return respondError(err)
	}
	err = h.demoService.RevokeSession(c.Request().Context(), claims)
	switch {
	case errors.Is(err, auth.ErrRevocationUnavailable):
		return c.JSON(http.StatusOK, RevokeResponse{
			Message: "Session ended; revocation is unavailable, the token stays valid until it expires",
		})
	case err != nil:
		return respondError(err)
	}
	return c.JSON(http.StatusOK, RevokeResponse{Message: "Session revoked", Revoked: true})
}

func sessionClaims(c echo.Context) (*auth.SessionClaims, error) {
	claims, ok := c.Get(SessionContextKey).(*auth.SessionClaims)
	if !ok || claims == nil {
		return nil, errors.ErrInvalidSession
	}
	return claims, nil
}
