package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	_ "newsdesk/docs" // swagger docs

	"newsdesk/internal/auth"
	"newsdesk/internal/cache"
	"newsdesk/internal/config"
	"newsdesk/internal/handler"
	"newsdesk/internal/logging"
	"newsdesk/internal/repository"
	"newsdesk/internal/router"
	"newsdesk/internal/service"
)

// @title Newsdesk API
// @version 1.0
// @description Role-based newsroom task assignment API with demo sessions.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	cfg := config.Load()

	logger := logging.Must(cfg.LogLevel, !cfg.IsProduction())
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			logger.Error("sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if cacheClient.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := cacheClient.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, continuing without cache", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		cancel()
	}

	store := repository.NewStore(nil)

	// Initialize auth components
	tokenService := auth.NewSessionTokenService(cfg.SessionSecret, cfg.SessionTTL)
	revocations := auth.NewRevocationStore(cacheClient)

	// Initialize services
	userService := service.NewUserService(store.Users, cacheClient)
	taskService := service.NewTaskService(store.Tasks)
	adminService := service.NewAdminService(store.AdminProfiles)
	statsService := service.NewStatsService(store.Users, store.Tasks)
	demoService := service.NewDemoService(userService, tokenService, revocations)

	if cfg.SeedDemoUsers {
		created, err := demoService.SeedPersonas(context.Background())
		if err != nil {
			logger.Fatal("seed demo personas", zap.Error(err))
		}
		logger.Info("demo personas seeded", zap.Int("created", created))
	}

	e := echo.New()
	router.Register(e, cfg, logger, router.Handlers{
		Users:   handler.NewUserHandler(userService),
		Tasks:   handler.NewTaskHandler(taskService),
		Admin:   handler.NewAdminHandler(adminService),
		Stats:   handler.NewStatsHandler(statsService),
		Session: handler.NewSessionHandler(demoService, userService),
		Seed:    handler.NewSeedHandler(demoService),
	}, demoService)

	logger.Info("swagger documentation available", zap.String("url", swaggerURL(cfg)))

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := ":" + cfg.ServerPort
		logger.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.AppEnv))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server start", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if err := cacheClient.Close(); err != nil {
		logger.Warn("close cache", zap.Error(err))
	}
	logger.Info("server stopped")
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return strings.TrimRight(host, "/") + "/swagger/index.html"
}
