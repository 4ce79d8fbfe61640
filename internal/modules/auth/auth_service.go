package auth

import (
	"context"
	"errors"
	"fmt"

	"aunt-joys-restaurant/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer signs an access token for an authenticated user.
type TokenIssuer func(user *models.User) (string, error)

// ServiceInterface defines the contract for the auth service.
type ServiceInterface interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Profile(ctx context.Context, userID int64) (*models.User, error)
}

// Service implements registration and login.
type Service struct {
	repo       RepositoryInterface
	issueToken TokenIssuer
}

// NewService creates a new auth service.
func NewService(repo RepositoryInterface, issueToken TokenIssuer) *Service {
	return &Service{repo: repo, issueToken: issueToken}
}

// Register creates a Customer account and signs the user in.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	taken, err := s.repo.UsernameExists(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("service.Register: %w", err)
	}
	if taken {
		return nil, models.ErrUsernameTaken
	}

	taken, err = s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("service.Register: %w", err)
	}
	if taken {
		return nil, models.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("service.Register: hash password: %w", err)
	}

	user, err := s.repo.CreateCustomer(ctx, req, string(hash))
	if err != nil {
		return nil, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, fmt.Errorf("service.Register: sign token: %w", err)
	}

	return &models.AuthResponse{Token: token, User: user}, nil
}

// Login authenticates by username or email. Inactive accounts are rejected
// only after the password check.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.repo.FindByLogin(ctx, req.Username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("service.Login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, models.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, models.ErrUserInactive
	}

	if err := s.repo.TouchLastLogin(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("service.Login: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, fmt.Errorf("service.Login: sign token: %w", err)
	}

	return &models.AuthResponse{Token: token, User: user}, nil
}

// Profile returns the authenticated user's record.
func (s *Service) Profile(ctx context.Context, userID int64) (*models.User, error) {
	return s.repo.FindByID(ctx, userID)
}
