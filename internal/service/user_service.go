package service

import (
	"context"
	"time"

	"newsdesk/internal/cache"
	"newsdesk/internal/errors"
	"newsdesk/internal/model"
	"newsdesk/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserService exposes user profile operations.
type UserService interface {
	CreateUser(ctx context.Context, input model.CreateUserInput) (*model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByUID(ctx context.Context, uid string) (*model.User, error)
	ListUsers(ctx context.Context, role model.Role) ([]model.User, error)
	UpdateUser(ctx context.Context, id int64, patch model.UserPatch) (*model.User, error)
	PingUser(ctx context.Context, id int64) (*model.User, error)
	DeleteUser(ctx context.Context, id int64) error
	DeleteUserByUID(ctx context.Context, uid string) error
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

// remember caches user under both keys, then re-reads the repository and
// drops the entries again if a write landed after user was loaded. Writers
// update the repository before they forget, so either their delete or this
// check removes a stale copy.
func (s *userService) remember(ctx context.Context, user *model.User) {
	if !s.cache.Enabled() {
		return
	}
	s.cache.SetJSON(ctx, cache.UserIDKey(user.ID), user, userCacheTTL)
	s.cache.SetJSON(ctx, cache.UserUIDKey(user.UID), user, userCacheTTL)

	current, ok := s.repo.FindByID(ctx, user.ID)
	if !ok || !sameVersion(user, current) {
		s.forget(ctx, user, current)
	}
}

func sameVersion(a, b *model.User) bool {
	return a.ID == b.ID &&
		a.UID == b.UID &&
		a.UpdatedAt.Equal(b.UpdatedAt) &&
		a.LastActive.Equal(b.LastActive)
}

func (s *userService) forget(ctx context.Context, users ...*model.User) {
	keys := make([]string, 0, 2*len(users))
	for _, u := range users {
		if u == nil {
			continue
		}
		keys = append(keys, cache.UserIDKey(u.ID), cache.UserUIDKey(u.UID))
	}
	_ = s.cache.Delete(ctx, keys...)
}

func (s *userService) CreateUser(ctx context.Context, input model.CreateUserInput) (*model.User, error) {
	user, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, cache.UserIDKey(id), &cached) {
		return &cached, nil
	}

	user, ok := s.repo.FindByID(ctx, id)
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	s.remember(ctx, user)
	return user, nil
}

func (s *userService) GetUserByUID(ctx context.Context, uid string) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, cache.UserUIDKey(uid), &cached) {
		return &cached, nil
	}

	user, ok := s.repo.FindByUID(ctx, uid)
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	s.remember(ctx, user)
	return user, nil
}

// ListUsers returns every user, or only those holding role when it is set.
func (s *userService) ListUsers(ctx context.Context, role model.Role) ([]model.User, error) {
	if role == "" {
		return s.repo.List(ctx), nil
	}
	if !role.Valid() {
		return nil, &errors.ValidationError{Violations: []errors.Violation{{
			Field:   "role",
			Rule:    "role",
			Message: "role must be one of the newsroom roles",
		}}}
	}
	return s.repo.ListByRole(ctx, role), nil
}

func (s *userService) UpdateUser(ctx context.Context, id int64, patch model.UserPatch) (*model.User, error) {
	before, ok := s.repo.FindByID(ctx, id)
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	user, ok, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	s.forget(ctx, before, user)
	return user, nil
}

// PingUser records activity for the user without touching updatedAt.
func (s *userService) PingUser(ctx context.Context, id int64) (*model.User, error) {
	user, ok := s.repo.Touch(ctx, id)
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	s.forget(ctx, user)
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id int64) error {
	user, ok := s.repo.FindByID(ctx, id)
	if !ok || !s.repo.Delete(ctx, id) {
		return errors.ErrUserNotFound
	}
	s.forget(ctx, user)
	return nil
}

func (s *userService) DeleteUserByUID(ctx context.Context, uid string) error {
	user, ok := s.repo.FindByUID(ctx, uid)
	if !ok || !s.repo.Delete(ctx, user.ID) {
		return errors.ErrUserNotFound
	}
	s.forget(ctx, user)
	return nil
}
