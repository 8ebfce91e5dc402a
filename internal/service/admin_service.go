package service

import (
	"context"

	"newsdesk/internal/errors"
	"newsdesk/internal/model"
	"newsdesk/internal/repository"
)

// AdminService manages supplementary admin privilege records.
type AdminService interface {
	GetProfile(ctx context.Context, userID string) (*model.AdminProfile, error)
	ListProfiles(ctx context.Context) ([]model.AdminProfile, error)
	CreateProfile(ctx context.Context, input model.CreateAdminProfileInput) (*model.AdminProfile, error)
	UpdateProfile(ctx context.Context, userID string, patch model.AdminProfilePatch) (*model.AdminProfile, error)
}

type adminService struct {
	repo repository.AdminProfileRepository
}

// NewAdminService creates a new admin service.
func NewAdminService(repo repository.AdminProfileRepository) AdminService {
	return &adminService{repo: repo}
}

func (s *adminService) GetProfile(ctx context.Context, userID string) (*model.AdminProfile, error) {
	profile, ok := s.repo.FindByUserID(ctx, userID)
	if !ok {
		return nil, errors.ErrAdminProfileNotFound
	}
	return profile, nil
}

func (s *adminService) ListProfiles(ctx context.Context) ([]model.AdminProfile, error) {
	return s.repo.List(ctx), nil
}

func (s *adminService) CreateProfile(ctx context.Context, input model.CreateAdminProfileInput) (*model.AdminProfile, error) {
	return s.repo.Create(ctx, input)
}

func (s *adminService) UpdateProfile(ctx context.Context, userID string, patch model.AdminProfilePatch) (*model.AdminProfile, error) {
	existing, ok := s.repo.FindByUserID(ctx, userID)
	if !ok {
		return nil, errors.ErrAdminProfileNotFound
	}
	profile, ok := s.repo.Update(ctx, existing.ID, patch)
	if !ok {
		return nil, errors.ErrAdminProfileNotFound
	}
	return profile, nil
}
