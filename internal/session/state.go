// Package session resolves who the current identity is and which
// application profile, if any, belongs to it.
package session

import "newsdesk/internal/model"

// Phase is the bootstrap lifecycle stage.
type Phase int

const (
	// PhaseInitializing is the state before any identity source was consulted.
	PhaseInitializing Phase = iota
	// PhaseResolving means the identity is known and its profile is being fetched.
	PhaseResolving
	// PhaseReady means identity and profile are settled for now.
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "initializing"
	case PhaseResolving:
		return "resolving"
	case PhaseReady:
		return "ready"
	}
	return "unknown"
}

// Identity is the principal vouched for by an identity source.
type Identity struct {
	UID         string
	DisplayName string
	Email       string
	Token       string
	// Demo is set when the identity comes from a local override session.
	Demo bool
}

// State is an immutable snapshot of the bootstrap.
type State struct {
	Phase    Phase
	Identity *Identity
	Profile  *model.User
}

// Loading reports whether the bootstrap has not settled yet.
func (s State) Loading() bool {
	return s.Phase != PhaseReady
}

// Flags derives the role flags from the profile.
func (s State) Flags() RoleFlags {
	return FlagsFor(s.Profile)
}

// RoleFlags are coarse permissions derived purely from the profile role.
type RoleFlags struct {
	IsAdmin        bool
	IsReporter     bool
	IsCameraman    bool
	CanManageUsers bool
	CanCreateTasks bool
}

// FlagsFor computes role flags. A nil profile has no flags set.
func FlagsFor(profile *model.User) RoleFlags {
	if profile == nil {
		return RoleFlags{}
	}
	f := RoleFlags{
		IsAdmin:     profile.Role.Elevated(),
		IsReporter:  profile.Role == model.RoleReporter,
		IsCameraman: profile.Role == model.RoleCameraman,
	}
	f.CanManageUsers = f.IsAdmin
	f.CanCreateTasks = f.IsAdmin || f.IsReporter || f.IsCameraman
	return f
}
