package users

import (
	"context"
	"fmt"

	"aunt-joys-restaurant/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// systemAdminID is the seeded administrator account, which can never be
// deleted.
const systemAdminID int64 = 1

// ServiceInterface defines the contract for the user admin service.
type ServiceInterface interface {
	ListUsers(ctx context.Context, roleID *int64, isActive *bool) ([]*models.User, error)
	SaveUser(ctx context.Context, req models.SaveUserRequest) (int64, error)
	DeleteUser(ctx context.Context, actorID, userID int64) error
}

// Service implements staff user management.
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new user admin service.
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// ListUsers lists accounts with optional role and active filters.
func (s *Service) ListUsers(ctx context.Context, roleID *int64, isActive *bool) ([]*models.User, error) {
	return s.repo.List(ctx, roleID, isActive)
}

// SaveUser creates a user when req.UserID is absent, updates otherwise.
// A new user requires a password; an update re-hashes only when one is given.
func (s *Service) SaveUser(ctx context.Context, req models.SaveUserRequest) (int64, error) {
	excludeID := int64(0)
	if req.UserID != nil {
		excludeID = *req.UserID
	}

	dup, err := s.repo.DuplicateExists(ctx, req.Username, req.Email, excludeID)
	if err != nil {
		return 0, fmt.Errorf("service.SaveUser: %w", err)
	}
	if dup {
		return 0, models.ErrUsernameTaken
	}

	if req.UserID == nil {
		if req.Password == nil {
			return 0, fmt.Errorf("%w: password is required for a new user", models.ErrValidation)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return 0, fmt.Errorf("service.SaveUser: hash password: %w", err)
		}
		return s.repo.Create(ctx, req, string(hash))
	}

	var hash *string
	if req.Password != nil {
		h, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return 0, fmt.Errorf("service.SaveUser: hash password: %w", err)
		}
		hs := string(h)
		hash = &hs
	}
	if err := s.repo.Update(ctx, req, hash); err != nil {
		return 0, err
	}
	return *req.UserID, nil
}

// DeleteUser removes an account. The seeded administrator and the acting
// user's own account are protected.
func (s *Service) DeleteUser(ctx context.Context, actorID, userID int64) error {
	if userID == systemAdminID {
		return models.ErrProtectedUser
	}
	if userID == actorID {
		return fmt.Errorf("%w: cannot delete your own account", models.ErrValidation)
	}
	return s.repo.Delete(ctx, userID)
}
