package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"newsdesk/internal/auth"
	"newsdesk/internal/client"
	"newsdesk/internal/config"
	"newsdesk/internal/handler"
	"newsdesk/internal/repository"
	"newsdesk/internal/router"
	"newsdesk/internal/service"
	"newsdesk/internal/session"
)

func newTestApp(t *testing.T) (*app, *bytes.Buffer) {
	t.Helper()
	store := repository.NewStore(nil)
	userService := service.NewUserService(store.Users, nil)
	tokens := auth.NewSessionTokenService("test-secret", time.Hour)
	demoService := service.NewDemoService(userService, tokens, auth.NewRevocationStore(nil))
	_, err := demoService.SeedPersonas(context.Background())
	require.NoError(t, err)

	e := echo.New()
	router.Register(e, &config.Config{CORSOrigins: []string{"*"}}, zap.NewNop(), router.Handlers{
		Users:   handler.NewUserHandler(userService),
		Tasks:   handler.NewTaskHandler(service.NewTaskService(store.Tasks)),
		Admin:   handler.NewAdminHandler(service.NewAdminService(store.AdminProfiles)),
		Stats:   handler.NewStatsHandler(service.NewStatsService(store.Users, store.Tasks)),
		Session: handler.NewSessionHandler(demoService, userService),
		Seed:    handler.NewSeedHandler(demoService),
	}, demoService)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	out := &bytes.Buffer{}
	return &app{
		api:   client.New(srv.URL),
		store: session.NewFileOverrideStore(filepath.Join(t.TempDir(), "session.json")),
		log:   zap.NewNop(),
		out:   out,
	}, out
}

func runCmd(t *testing.T, a *app, out *bytes.Buffer, args ...string) string {
	t.Helper()
	out.Reset()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, a.run(ctx, args))
	return out.String()
}

func TestConsole_DemoSessionLifecycle(t *testing.T) {
	a, out := newTestApp(t)

	assert.Equal(t, "/: redirect /login\n", runCmd(t, a, out, "route"))
	assert.Equal(t, "/login: render login\n", runCmd(t, a, out, "route", "/login/"))
	assert.Equal(t, "signed out\n", runCmd(t, a, out, "whoami"))

	got := runCmd(t, a, out, "demo", "reporter_user")
	assert.Contains(t, got, "signed in as Sarah Reporter (Reporter)")
	assert.Contains(t, got, "redirect /dashboard")

	assert.Equal(t, "/dashboard: render reporter-dashboard\n", runCmd(t, a, out, "route", "/dashboard"))
	assert.Equal(t, "/admin: redirect /dashboard\n", runCmd(t, a, out, "route", "/admin"))

	got = runCmd(t, a, out, "whoami")
	assert.Contains(t, got, "uid:     reporter_user")
	assert.Contains(t, got, "role:    Reporter")
	assert.Contains(t, got, "demo:    true")

	assert.Equal(t, "signed out\n", runCmd(t, a, out, "signout"))
	assert.Equal(t, "/: redirect /login\n", runCmd(t, a, out, "route", "/"))
}

func TestConsole_ElevatedPersona(t *testing.T) {
	a, out := newTestApp(t)

	got := runCmd(t, a, out, "demo", "editor_user")
	assert.Contains(t, got, "redirect /admin")
	assert.Equal(t, "/admin/users: render admin-users\n", runCmd(t, a, out, "route", "/admin/users"))
}

func TestConsole_Errors(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()

	assert.Error(t, a.run(ctx, nil))
	assert.Error(t, a.run(ctx, []string{"bogus"}))
	assert.Error(t, a.run(ctx, []string{"demo"}))
	assert.ErrorIs(t, a.run(ctx, []string{"demo", "nobody"}), client.ErrNotFound)
}

func TestConsole_Personas(t *testing.T) {
	a, out := newTestApp(t)

	got := runCmd(t, a, out, "personas")
	assert.Contains(t, got, "admin_user")
	assert.Contains(t, got, "cameraman_user")
}
