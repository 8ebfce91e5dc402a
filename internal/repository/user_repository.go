package repository

import (
	"context"
	"fmt"

	"newsdesk/internal/errors"
	"newsdesk/internal/model"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, input model.CreateUserInput) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, bool)
	FindByUID(ctx context.Context, uid string) (*model.User, bool)
	FindByEmail(ctx context.Context, email string) (*model.User, bool)
	Update(ctx context.Context, id int64, patch model.UserPatch) (*model.User, bool, error)
	Touch(ctx context.Context, id int64) (*model.User, bool)
	Delete(ctx context.Context, id int64) bool
	List(ctx context.Context) []model.User
	ListByRole(ctx context.Context, role model.Role) []model.User
}

type userRepository struct {
	rows *table[model.User]
	now  Clock
}

// NewUserRepository creates an in-memory user repository.
func NewUserRepository(now Clock) UserRepository {
	return &userRepository{rows: newTable[model.User](nil), now: now}
}

func checkUserUnique(candidate, existing model.User) error {
	if candidate.UID == existing.UID {
		return fmt.Errorf("%w: uid %q already exists", errors.ErrConflict, candidate.UID)
	}
	if candidate.Email == existing.Email {
		return fmt.Errorf("%w: email %q already exists", errors.ErrConflict, candidate.Email)
	}
	return nil
}

// Create stores a new user, applying field defaults.
func (r *userRepository) Create(_ context.Context, input model.CreateUserInput) (*model.User, error) {
	now := r.now()
	user, err := r.rows.insert(func(id int64) model.User {
		u := model.User{
			ID:         id,
			UID:        input.UID,
			FullName:   input.FullName,
			Email:      input.Email,
			Role:       input.Role,
			PhotoURL:   input.PhotoURL,
			FCMToken:   input.FCMToken,
			IsActive:   true,
			LastActive: now,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if input.ProfileComplete != nil {
			u.ProfileComplete = *input.ProfileComplete
		}
		if input.IsActive != nil {
			u.IsActive = *input.IsActive
		}
		return u
	}, checkUserUnique)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(_ context.Context, id int64) (*model.User, bool) {
	user, ok := r.rows.get(id)
	if !ok {
		return nil, false
	}
	return &user, true
}

func (r *userRepository) FindByUID(_ context.Context, uid string) (*model.User, bool) {
	user, ok := r.rows.first(func(u model.User) bool { return u.UID == uid })
	if !ok {
		return nil, false
	}
	return &user, true
}

func (r *userRepository) FindByEmail(_ context.Context, email string) (*model.User, bool) {
	user, ok := r.rows.first(func(u model.User) bool { return u.Email == email })
	if !ok {
		return nil, false
	}
	return &user, true
}

// Update merges the patch onto the stored user and re-stamps UpdatedAt.
func (r *userRepository) Update(_ context.Context, id int64, patch model.UserPatch) (*model.User, bool, error) {
	now := r.now()
	user, ok, err := r.rows.update(id, func(u *model.User) {
		patch.Apply(u)
		u.UpdatedAt = now
	}, checkUserUnique)
	if !ok || err != nil {
		return nil, ok, err
	}
	return &user, true, nil
}

// Touch records activity for the user.
func (r *userRepository) Touch(_ context.Context, id int64) (*model.User, bool) {
	now := r.now()
	user, ok, _ := r.rows.update(id, func(u *model.User) {
		u.LastActive = now
	}, nil)
	if !ok {
		return nil, false
	}
	return &user, true
}

func (r *userRepository) Delete(_ context.Context, id int64) bool {
	return r.rows.remove(id)
}

func (r *userRepository) List(_ context.Context) []model.User {
	return r.rows.filter(nil)
}

func (r *userRepository) ListByRole(_ context.Context, role model.Role) []model.User {
	return r.rows.filter(func(u model.User) bool { return u.Role == role })
}
