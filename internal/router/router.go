package router

import (
	"net/http"
	"strings"
	"time"

	sentryecho "github.com/getsentry/sentry-go/echo"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"newsdesk/internal/config"
	"newsdesk/internal/errors"
	"newsdesk/internal/handler"
	"newsdesk/internal/service"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Users   *handler.UserHandler
	Tasks   *handler.TaskHandler
	Admin   *handler.AdminHandler
	Stats   *handler.StatsHandler
	Session *handler.SessionHandler
	Seed    *handler.SeedHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	logger *zap.Logger,
	h Handlers,
	demoService service.DemoService,
) {
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger)
	e.Validator = NewValidator()

	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	if cfg.SentryDSN != "" {
		e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	}
	e.Use(requestLogger(logger))
	e.Use(middleware.Secure())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.BodyLimit("1M"))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Users
	api.GET("/users", h.Users.ListUsers)
	api.GET("/users/:id", h.Users.GetUser)
	api.GET("/users/uid/:uid", h.Users.GetUserByUID)
	api.POST("/users", h.Users.CreateUser)
	api.PUT("/users/:id", h.Users.UpdateUser)
	api.POST("/users/:id/ping", h.Users.PingUser)
	api.DELETE("/users/:id", h.Users.DeleteUser)
	api.DELETE("/users/uid/:uid", h.Users.DeleteUserByUID)

	// Tasks
	api.GET("/tasks", h.Tasks.ListTasks)
	api.GET("/tasks/:id", h.Tasks.GetTask)
	api.GET("/tasks/assignedTo/:uid", h.Tasks.ListByAssignee)
	api.GET("/tasks/createdBy/:uid", h.Tasks.ListByCreator)
	api.POST("/tasks", h.Tasks.CreateTask)
	api.PUT("/tasks/:id", h.Tasks.UpdateTask)
	api.DELETE("/tasks/:id", h.Tasks.DeleteTask)

	// Admin profiles
	api.GET("/admin/profile", h.Admin.ListProfiles)
	api.GET("/admin/profile/:userId", h.Admin.GetProfile)
	api.POST("/admin/profile", h.Admin.CreateProfile)
	api.PUT("/admin/profile/:userId", h.Admin.UpdateProfile)

	// Stats
	api.GET("/stats", h.Stats.GetStats)
	api.GET("/stats/analytics", h.Stats.GetAnalytics)

	// Demo sign-in
	api.GET("/demo/personas", h.Session.ListPersonas)
	api.POST("/demo/session", h.Session.IssueDemoSession)
	api.POST("/demo/seed", h.Seed.SeedPersonas)

	// Bearer session routes
	session := api.Group("/session", echojwt.WithConfig(echojwt.Config{
		ContextKey:  handler.SessionContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return demoService.Authenticate(c.Request().Context(), token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			httpErr := errors.MapErrorToHTTP(errors.ErrInvalidSession)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
		},
	}))
	session.GET("/me", h.Session.Me)
	session.DELETE("", h.Session.Revoke)
}

// requestLogger logs one zap line per request.
func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/healthz" || strings.HasPrefix(c.Path(), "/swagger")
		},
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency.Round(time.Microsecond)),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil && v.Status >= http.StatusInternalServerError {
				logger.Warn("request", fields...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}
