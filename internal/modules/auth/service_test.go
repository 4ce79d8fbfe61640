package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"aunt-joys-restaurant/internal/models"

	"golang.org/x/crypto/bcrypt"
)

type fakeRepository struct {
	nextID int64
	users  map[int64]*models.User
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{users: make(map[int64]*models.User)}
}

func (f *fakeRepository) seed(username, password string, active bool) *models.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	f.nextID++
	u := &models.User{
		ID:           f.nextID,
		RoleID:       models.RoleIDCustomer,
		RoleName:     models.RoleCustomer,
		Username:     username,
		Email:        username + "@example.com",
		FullName:     "Test User",
		IsActive:     active,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	f.users[u.ID] = u
	return u
}

func (f *fakeRepository) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == login || u.Email == login {
			copied := *u
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeRepository) FindByID(ctx context.Context, userID int64) (*models.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	for _, u := range f.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepository) CreateCustomer(ctx context.Context, req models.RegisterRequest, passwordHash string) (*models.User, error) {
	f.nextID++
	u := &models.User{
		ID:           f.nextID,
		RoleID:       models.RoleIDCustomer,
		RoleName:     models.RoleCustomer,
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		PhoneNumber:  req.PhoneNumber,
		IsActive:     true,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	f.users[u.ID] = u
	copied := *u
	return &copied, nil
}

func (f *fakeRepository) TouchLastLogin(ctx context.Context, userID int64) error {
	u, ok := f.users[userID]
	if !ok {
		return models.ErrNotFound
	}
	now := time.Now()
	u.LastLogin = &now
	return nil
}

func stubIssuer(user *models.User) (string, error) {
	return "stub-token", nil
}

func TestRegister(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, stubIssuer)

	resp, err := svc.Register(context.Background(), models.RegisterRequest{
		Username: "chisomo",
		Email:    "chisomo@example.com",
		Password: "secret123",
		FullName: "Chisomo Banda",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if resp.Token != "stub-token" {
		t.Errorf("unexpected token %q", resp.Token)
	}
	if resp.User.RoleName != models.RoleCustomer {
		t.Errorf("new account role = %q, want Customer", resp.User.RoleName)
	}
	if !resp.User.IsActive {
		t.Error("new account should be active")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(resp.User.PasswordHash), []byte("secret123")); err != nil {
		t.Error("stored hash does not verify against the password")
	}
	if resp.User.PasswordHash == "secret123" {
		t.Error("password must not be stored in the clear")
	}
}

func TestRegisterDuplicates(t *testing.T) {
	repo := newFakeRepository()
	repo.seed("chisomo", "secret123", true)
	svc := NewService(repo, stubIssuer)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Username: "chisomo",
		Email:    "other@example.com",
		Password: "secret123",
		FullName: "Other",
	})
	if !errors.Is(err, models.ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}

	_, err = svc.Register(context.Background(), models.RegisterRequest{
		Username: "other",
		Email:    "chisomo@example.com",
		Password: "secret123",
		FullName: "Other",
	})
	if !errors.Is(err, models.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	repo := newFakeRepository()
	seeded := repo.seed("chisomo", "secret123", true)
	svc := NewService(repo, stubIssuer)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "chisomo", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.User.ID != seeded.ID {
		t.Errorf("logged in as user %d, want %d", resp.User.ID, seeded.ID)
	}
	if repo.users[seeded.ID].LastLogin == nil {
		t.Error("last_login should be stamped on successful login")
	}

	// Email works as the login identifier too.
	if _, err := svc.Login(context.Background(), models.LoginRequest{Username: "chisomo@example.com", Password: "secret123"}); err != nil {
		t.Errorf("login by email failed: %v", err)
	}
}

func TestLoginRejections(t *testing.T) {
	repo := newFakeRepository()
	repo.seed("chisomo", "secret123", true)
	inactive := repo.seed("dormant", "secret123", false)
	svc := NewService(repo, stubIssuer)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "chisomo", Password: "wrong"})
	if !errors.Is(err, models.ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}

	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "nobody", Password: "secret123"})
	if !errors.Is(err, models.ErrInvalidCredentials) {
		t.Errorf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}

	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "dormant", Password: "secret123"})
	if !errors.Is(err, models.ErrUserInactive) {
		t.Errorf("inactive account: expected ErrUserInactive, got %v", err)
	}
	if repo.users[inactive.ID].LastLogin != nil {
		t.Error("a rejected login must not stamp last_login")
	}
}
