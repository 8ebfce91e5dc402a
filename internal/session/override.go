package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"newsdesk/internal/auth"
)

// ErrMalformedOverride is returned for an override session that must be discarded.
var ErrMalformedOverride = errors.New("malformed override session")

// Override is a locally persisted session that bypasses the external
// identity provider for demonstrations.
type Override struct {
	DemoMode bool            `json:"demoMode"`
	Session  OverrideSession `json:"session"`
}

// OverrideSession is the identity carried by an override.
type OverrideSession struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Token       string `json:"token,omitempty"`
}

// Validate checks that the override can be adopted at now.
func (o Override) Validate(now time.Time) error {
	if !o.DemoMode {
		return fmt.Errorf("%w: demo mode not enabled", ErrMalformedOverride)
	}
	if o.Session.UID == "" {
		return fmt.Errorf("%w: uid missing", ErrMalformedOverride)
	}
	if o.Session.Token == "" {
		return nil
	}
	claims, err := auth.ParseUnverified(o.Session.Token, now)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedOverride, err)
	}
	if claims.Subject != o.Session.UID {
		return fmt.Errorf("%w: token subject %q does not match uid %q", ErrMalformedOverride, claims.Subject, o.Session.UID)
	}
	return nil
}

// Identity returns the identity the override vouches for.
func (o Override) Identity() *Identity {
	return &Identity{
		UID:         o.Session.UID,
		DisplayName: o.Session.DisplayName,
		Email:       o.Session.Email,
		Token:       o.Session.Token,
		Demo:        true,
	}
}

// OverrideStore persists the override session.
type OverrideStore interface {
	// Load returns nil without error when no override is stored.
	Load() (*Override, error)
	Save(o Override) error
	Clear() error
}

// FileOverrideStore keeps the override session as a JSON file.
type FileOverrideStore struct {
	path string
}

var _ OverrideStore = (*FileOverrideStore)(nil)

// NewFileOverrideStore creates a store backed by path.
func NewFileOverrideStore(path string) *FileOverrideStore {
	return &FileOverrideStore{path: path}
}

// Path returns the backing file path.
func (s *FileOverrideStore) Path() string {
	return s.path
}

func (s *FileOverrideStore) Load() (*Override, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read override session: %w", err)
	}
	var o Override
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOverride, err)
	}
	return &o, nil
}

// Save writes the override atomically with owner-only permissions.
func (s *FileOverrideStore) Save(o Override) error {
	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return fmt.Errorf("encode override session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write override session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write override session: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("chmod override session: %w", err)
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *FileOverrideStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear override session: %w", err)
	}
	return nil
}
