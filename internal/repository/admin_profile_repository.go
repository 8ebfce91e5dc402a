package repository

import (
	"context"
	"fmt"
	"slices"

	"newsdesk/internal/errors"
	"newsdesk/internal/model"
)

// AdminProfileRepository defines admin profile persistence operations.
type AdminProfileRepository interface {
	Create(ctx context.Context, input model.CreateAdminProfileInput) (*model.AdminProfile, error)
	FindByID(ctx context.Context, id int64) (*model.AdminProfile, bool)
	FindByUserID(ctx context.Context, userID string) (*model.AdminProfile, bool)
	Update(ctx context.Context, id int64, patch model.AdminProfilePatch) (*model.AdminProfile, bool)
	Delete(ctx context.Context, id int64) bool
	List(ctx context.Context) []model.AdminProfile
}

type adminProfileRepository struct {
	rows *table[model.AdminProfile]
	now  Clock
}

// NewAdminProfileRepository creates an in-memory admin profile repository.
func NewAdminProfileRepository(now Clock) AdminProfileRepository {
	return &adminProfileRepository{rows: newTable(cloneAdminProfile), now: now}
}

func cloneAdminProfile(p model.AdminProfile) model.AdminProfile {
	p.Privileges = slices.Clone(p.Privileges)
	if p.Privileges == nil {
		p.Privileges = []string{}
	}
	return p
}

func (r *adminProfileRepository) Create(_ context.Context, input model.CreateAdminProfileInput) (*model.AdminProfile, error) {
	now := r.now()
	profile, err := r.rows.insert(func(id int64) model.AdminProfile {
		return model.AdminProfile{
			ID:         id,
			UserID:     input.UserID,
			Privileges: slices.Clone(input.Privileges),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	}, func(candidate, existing model.AdminProfile) error {
		if candidate.UserID == existing.UserID {
			return fmt.Errorf("%w: admin profile for %q already exists", errors.ErrConflict, candidate.UserID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *adminProfileRepository) FindByID(_ context.Context, id int64) (*model.AdminProfile, bool) {
	profile, ok := r.rows.get(id)
	if !ok {
		return nil, false
	}
	return &profile, true
}

func (r *adminProfileRepository) FindByUserID(_ context.Context, userID string) (*model.AdminProfile, bool) {
	profile, ok := r.rows.first(func(p model.AdminProfile) bool { return p.UserID == userID })
	if !ok {
		return nil, false
	}
	return &profile, true
}

func (r *adminProfileRepository) Update(_ context.Context, id int64, patch model.AdminProfilePatch) (*model.AdminProfile, bool) {
	now := r.now()
	profile, ok, _ := r.rows.update(id, func(p *model.AdminProfile) {
		patch.Apply(p)
		p.UpdatedAt = now
	}, nil)
	if !ok {
		return nil, false
	}
	return &profile, true
}

func (r *adminProfileRepository) Delete(_ context.Context, id int64) bool {
	return r.rows.remove(id)
}

func (r *adminProfileRepository) List(_ context.Context) []model.AdminProfile {
	return r.rows.filter(nil)
}
