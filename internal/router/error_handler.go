package router

import (
	stderrors "errors"
	"fmt"
	"net/http"

	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"newsdesk/internal/errors"
)

// NewHTTPErrorHandler renders every error as errors.ErrorResponse. Server
// errors are logged with their internal cause and reported to Sentry; the
// client only ever sees the generic message.
func NewHTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := toResponse(err)
		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				zap.Error(rootCause(err)),
			)
			if hub := sentryecho.GetHubFromContext(c); hub != nil {
				hub.CaptureException(rootCause(err))
			}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			logger.Warn("write error response", zap.Error(err))
		}
	}
}

func toResponse(err error) (int, errors.ErrorResponse) {
	var he *echo.HTTPError
	if !stderrors.As(err, &he) {
		httpErr := errors.MapErrorToHTTP(err)
		return httpErr.StatusCode, httpErr.ToErrorResponse()
	}

	if body, ok := he.Message.(errors.ErrorResponse); ok {
		return he.Code, body
	}
	if he.Code >= http.StatusInternalServerError {
		return he.Code, errors.ErrorResponse{Error: "internal server error", Code: "INTERNAL_ERROR"}
	}
	return he.Code, errors.ErrorResponse{Error: fmt.Sprint(he.Message), Code: codeForStatus(he.Code)}
}

func rootCause(err error) error {
	var he *echo.HTTPError
	if stderrors.As(err, &he) && he.Internal != nil {
		return he.Internal
	}
	return err
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	}
	if status >= http.StatusInternalServerError {
		return "INTERNAL_ERROR"
	}
	return "ERROR"
}
