package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"newsdesk/internal/errors"
)

// MessageResponse is returned by endpoints that have no record to echo back.
type MessageResponse struct {
	Message string `json:"message"`
}

// respondError maps a domain error to an echo.HTTPError carrying the
// standard error body. The underlying error is kept as the internal cause so
// the error handler can log it.
func respondError(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

// bindAndValidate decodes the request body into dst and runs the registered
// validator on it.
func bindAndValidate(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		return respondError(&errors.ValidationError{Violations: []errors.Violation{{
			Field:   "body",
			Rule:    "json",
			Message: "request body must be a JSON object matching the declared shape",
		}}})
	}
	if err := c.Validate(dst); err != nil {
		return respondError(err)
	}
	return nil
}

// parseID reads a positive integer path parameter.
func parseID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, respondError(&errors.ValidationError{Violations: []errors.Violation{{
			Field:   name,
			Rule:    "numeric",
			Message: name + " must be a positive integer",
		}}})
	}
	return id, nil
}
