package service

import (
	"context"
	"fmt"
	"time"

	"newsdesk/internal/auth"
	"newsdesk/internal/errors"
	"newsdesk/internal/model"
)

var demoPersonas = []model.Persona{
	{
		ID:          "admin_user",
		Name:        "John Administrator",
		Email:       "admin@demo.com",
		Role:        model.RoleAdmin,
		Description: "Full system access with user management capabilities",
		Permissions: []string{"Create tasks", "Assign tasks", "Manage users", "View all tasks", "Admin dashboard"},
	},
	{
		ID:          "reporter_user",
		Name:        "Sarah Reporter",
		Email:       "sarah@demo.com",
		Role:        model.RoleReporter,
		Description: "Create and manage reporting tasks",
		Permissions: []string{"Create tasks", "View assigned tasks", "Browse task archive", "Update task status"},
	},
	{
		ID:          "cameraman_user",
		Name:        "Mike Camera",
		Email:       "mike@demo.com",
		Role:        model.RoleCameraman,
		Description: "Manage video production tasks",
		Permissions: []string{"Create video tasks", "View assigned tasks", "Browse task archive", "Update task status"},
	},
	{
		ID:          "editor_user",
		Name:        "Lisa Editor",
		Email:       "lisa@demo.com",
		Role:        model.RoleAssignmentEditor,
		Description: "Editorial oversight and task assignment",
		Permissions: []string{"Create tasks", "Assign tasks", "Manage team tasks", "View all tasks", "Admin access"},
	},
}

// DemoService issues sessions for the demo personas and seeds their profiles.
type DemoService interface {
	Personas() []model.Persona
	IssueSession(ctx context.Context, personaID string) (*model.DemoSession, error)
	Authenticate(ctx context.Context, token string) (*auth.SessionClaims, error)
	RevokeSession(ctx context.Context, claims *auth.SessionClaims) error
	SeedPersonas(ctx context.Context) (int, error)
}

type demoService struct {
	users   UserService
	tokens  *auth.SessionTokenService
	revoked auth.RevocationStoreInterface
	now     func() time.Time
}

// NewDemoService creates a new demo service.
func NewDemoService(users UserService, tokens *auth.SessionTokenService, revoked auth.RevocationStoreInterface) DemoService {
	return &demoService{
		users:   users,
		tokens:  tokens,
		revoked: revoked,
		now:     time.Now,
	}
}

// Personas returns a copy of the demo persona list.
func (s *demoService) Personas() []model.Persona {
	out := make([]model.Persona, len(demoPersonas))
	for i, p := range demoPersonas {
		p.Permissions = append([]string(nil), p.Permissions...)
		out[i] = p
	}
	return out
}

func personaIdentity(p model.Persona) auth.Identity {
	return auth.Identity{UID: p.ID, DisplayName: p.Name, Email: p.Email}
}

func findPersona(id string) (model.Persona, bool) {
	for _, p := range demoPersonas {
		if p.ID == id {
			return p, true
		}
	}
	return model.Persona{}, false
}

func (s *demoService) IssueSession(_ context.Context, personaID string) (*model.DemoSession, error) {
	persona, ok := findPersona(personaID)
	if !ok {
		return nil, errors.ErrPersonaNotFound
	}
	token, claims, err := s.tokens.Issue(personaIdentity(persona))
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}
	persona.Permissions = append([]string(nil), persona.Permissions...)
	return &model.DemoSession{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		Persona:   persona,
	}, nil
}

// Authenticate validates a bearer token and rejects revoked sessions.
func (s *demoService) Authenticate(ctx context.Context, token string) (*auth.SessionClaims, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidSession, err)
	}
	if claims.ID != "" {
		revoked, _ := s.revoked.IsRevoked(ctx, claims.ID)
		if revoked {
			return nil, fmt.Errorf("%w: session revoked", errors.ErrInvalidSession)
		}
	}
	return claims, nil
}

// RevokeSession blocks the token until it would have expired.
func (s *demoService) RevokeSession(ctx context.Context, claims *auth.SessionClaims) error {
	if claims == nil || claims.ID == "" {
		return errors.ErrInvalidSession
	}
	return s.revoked.Revoke(ctx, claims.ID, claims.Remaining(s.now()))
}

// SeedPersonas creates a complete profile for every persona that has none yet
// and returns how many were created.
func (s *demoService) SeedPersonas(ctx context.Context) (int, error) {
	created := 0
	complete := true
	for _, p := range demoPersonas {
		_, err := s.users.GetUserByUID(ctx, p.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, errors.ErrUserNotFound) {
			return created, fmt.Errorf("look up persona %s: %w", p.ID, err)
		}
		_, err = s.users.CreateUser(ctx, model.CreateUserInput{
			UID:             p.ID,
			FullName:        p.Name,
			Email:           p.Email,
			Role:            p.Role,
			ProfileComplete: &complete,
		})
		if err != nil {
			return created, fmt.Errorf("seed persona %s: %w", p.ID, err)
		}
		created++
	}
	return created, nil
}
