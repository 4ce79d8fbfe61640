package auth

import (
	"context"
	"errors"
	"fmt"

	"aunt-joys-restaurant/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the contract for the auth repository.
type RepositoryInterface interface {
	FindByLogin(ctx context.Context, login string) (*models.User, error)
	FindByID(ctx context.Context, userID int64) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateCustomer(ctx context.Context, req models.RegisterRequest, passwordHash string) (*models.User, error)
	TouchLastLogin(ctx context.Context, userID int64) error
}

// Repository implements the RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new auth repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const userColumns = `
	u.user_id, u.role_id, r.role_name, u.username, u.email, u.password_hash,
	u.full_name, u.phone_number, u.is_active, u.last_login, u.created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.RoleID, &u.RoleName, &u.Username, &u.Email, &u.PasswordHash,
		&u.FullName, &u.PhoneNumber, &u.IsActive, &u.LastLogin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

// FindByLogin looks a user up by username or email.
func (r *Repository) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users u
		INNER JOIN roles r ON u.role_id = r.role_id
		WHERE u.username = $1 OR u.email = $1`, login)
	return scanUser(row)
}

// FindByID retrieves a user by id.
func (r *Repository) FindByID(ctx context.Context, userID int64) (*models.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users u
		INNER JOIN roles r ON u.role_id = r.role_id
		WHERE u.user_id = $1`, userID)
	return scanUser(row)
}

func (r *Repository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("repository.UsernameExists: %w", err)
	}
	return exists, nil
}

func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("repository.EmailExists: %w", err)
	}
	return exists, nil
}

// CreateCustomer inserts a new user in the Customer role.
func (r *Repository) CreateCustomer(ctx context.Context, req models.RegisterRequest, passwordHash string) (*models.User, error) {
	user := &models.User{
		RoleID:      models.RoleIDCustomer,
		RoleName:    models.RoleCustomer,
		Username:    req.Username,
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		IsActive:    true,
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (role_id, username, email, password_hash, full_name, phone_number)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING user_id, created_at`,
		models.RoleIDCustomer, req.Username, req.Email, passwordHash, req.FullName, req.PhoneNumber,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		// The duplicate checks race with concurrent registrations; the unique
		// constraints are the backstop.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.ErrUsernameTaken
		}
		return nil, fmt.Errorf("repository.CreateCustomer: %w", err)
	}
	return user, nil
}

// TouchLastLogin stamps the user's last_login.
func (r *Repository) TouchLastLogin(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET last_login = CURRENT_TIMESTAMP WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("repository.TouchLastLogin: %w", err)
	}
	return nil
}
