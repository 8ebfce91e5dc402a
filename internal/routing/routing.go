// Package routing decides which view a session may see at a path.
package routing

import (
	"strings"

	"newsdesk/internal/model"
	"newsdesk/internal/session"
)

// View names a page of the application.
type View string

const (
	ViewLoading            View = "loading"
	ViewLogin              View = "login"
	ViewSignup             View = "signup"
	ViewDemo               View = "demo"
	ViewProfileSetup       View = "profile-setup"
	ViewAdminDashboard     View = "admin-dashboard"
	ViewAdminUsers         View = "admin-users"
	ViewAdminTasks         View = "admin-tasks"
	ViewAdminAnalytics     View = "admin-analytics"
	ViewAdminSettings      View = "admin-settings"
	ViewReporterDashboard  View = "reporter-dashboard"
	ViewCameramanDashboard View = "cameraman-dashboard"
	ViewNotFound           View = "not-found"
)

const (
	PathRoot         = "/"
	PathLogin        = "/login"
	PathSignup       = "/signup"
	PathDemo         = "/demo"
	PathProfileSetup = "/profile-setup"
	PathAdmin        = "/admin"
	PathDashboard    = "/dashboard"
)

var publicViews = map[string]View{
	PathLogin:  ViewLogin,
	PathSignup: ViewSignup,
	PathDemo:   ViewDemo,
}

var adminViews = map[string]View{
	PathAdmin:                ViewAdminDashboard,
	PathAdmin + "/users":     ViewAdminUsers,
	PathAdmin + "/tasks":     ViewAdminTasks,
	PathAdmin + "/analytics": ViewAdminAnalytics,
	PathAdmin + "/settings":  ViewAdminSettings,
}

// Input is everything a decision depends on.
type Input struct {
	Loading     bool
	HasIdentity bool
	Profile     *model.User
}

// InputFrom projects a bootstrap snapshot onto a decision input.
func InputFrom(s session.State) Input {
	return Input{
		Loading:     s.Loading(),
		HasIdentity: s.Identity != nil,
		Profile:     s.Profile,
	}
}

// Outcome is exactly one of a rendered view or a redirect.
type Outcome struct {
	View     View
	Location string
}

// Render returns an outcome that shows v.
func Render(v View) Outcome { return Outcome{View: v} }

// Redirect returns an outcome that navigates to location.
func Redirect(location string) Outcome { return Outcome{Location: location} }

// IsRedirect reports whether the outcome navigates away.
func (o Outcome) IsRedirect() bool { return o.Location != "" }

func (o Outcome) String() string {
	if o.IsRedirect() {
		return "redirect " + o.Location
	}
	return "render " + string(o.View)
}

// Decide maps the session input and the requested path to an outcome.
// Rules are evaluated in order and the first match wins.
func Decide(in Input, path string) Outcome {
	path = Normalize(path)

	if in.Loading {
		return Render(ViewLoading)
	}

	if !in.HasIdentity {
		if v, ok := publicViews[path]; ok {
			return Render(v)
		}
		return Redirect(PathLogin)
	}

	if !profileUsable(in.Profile) {
		if path == PathProfileSetup {
			return Render(ViewProfileSetup)
		}
		return Redirect(PathProfileSetup)
	}

	role := in.Profile.Role
	landing := Landing(role)
	switch {
	case path == PathRoot, path == PathProfileSetup:
		return Redirect(landing)
	case publicViews[path] != "":
		return Redirect(landing)
	case path == PathDashboard:
		return Render(dashboardFor(role))
	}
	if v, ok := adminViews[path]; ok {
		if !role.Elevated() {
			return Redirect(PathDashboard)
		}
		return Render(v)
	}
	return Render(ViewNotFound)
}

// Landing returns the default path for a role.
func Landing(role model.Role) string {
	if role.Elevated() {
		return PathAdmin
	}
	return PathDashboard
}

func dashboardFor(role model.Role) View {
	switch role {
	case model.RoleReporter:
		return ViewReporterDashboard
	case model.RoleCameraman:
		return ViewCameramanDashboard
	}
	return ViewAdminDashboard
}

// A profile with a role outside the fixed set is treated like an
// unfinished one so the user is sent back through setup.
func profileUsable(p *model.User) bool {
	return p != nil && p.ProfileComplete && p.Role.Valid()
}

// Normalize strips query, fragment and trailing slashes. An empty path is "/".
func Normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimRight(path, "/")
	if path == "" {
		return PathRoot
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}
