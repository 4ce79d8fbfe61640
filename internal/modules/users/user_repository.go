package users

import (
	"context"
	"errors"
	"fmt"

	"aunt-joys-restaurant/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the contract for the user admin repository.
type RepositoryInterface interface {
	List(ctx context.Context, roleID *int64, isActive *bool) ([]*models.User, error)
	DuplicateExists(ctx context.Context, username, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, req models.SaveUserRequest, passwordHash string) (int64, error)
	Update(ctx context.Context, req models.SaveUserRequest, passwordHash *string) error
	Delete(ctx context.Context, userID int64) error
}

// Repository implements the RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new user admin repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

// List retrieves users with optional role and active filters.
func (r *Repository) List(ctx context.Context, roleID *int64, isActive *bool) ([]*models.User, error) {
	query := `
		SELECT u.user_id, u.role_id, r.role_name, u.username, u.email,
		       u.full_name, u.phone_number, u.is_active, u.last_login, u.created_at
		FROM users u
		INNER JOIN roles r ON u.role_id = r.role_id`
	args := []any{}

	where := ""
	if roleID != nil {
		args = append(args, *roleID)
		where = fmt.Sprintf(" WHERE u.role_id = $%d", len(args))
	}
	if isActive != nil {
		args = append(args, *isActive)
		if where == "" {
			where = fmt.Sprintf(" WHERE u.is_active = $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND u.is_active = $%d", len(args))
		}
	}
	query += where + ` ORDER BY u.created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository.List: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var u models.User
		err := rows.Scan(&u.ID, &u.RoleID, &u.RoleName, &u.Username, &u.Email,
			&u.FullName, &u.PhoneNumber, &u.IsActive, &u.LastLogin, &u.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("repository.List: %w", err)
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

// DuplicateExists reports whether another user already holds the username or
// email. excludeID skips the row being updated.
func (r *Repository) DuplicateExists(ctx context.Context, username, email string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM users
			WHERE (username = $1 OR email = $2) AND user_id != $3
		)`, username, email, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("repository.DuplicateExists: %w", err)
	}
	return exists, nil
}

// Create inserts a user in any role.
func (r *Repository) Create(ctx context.Context, req models.SaveUserRequest, passwordHash string) (int64, error) {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (role_id, username, email, password_hash, full_name, phone_number, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING user_id`,
		req.RoleID, req.Username, req.Email, passwordHash, req.FullName, req.PhoneNumber, isActive,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, models.ErrUsernameTaken
		}
		return 0, fmt.Errorf("repository.Create: %w", err)
	}
	return id, nil
}

// Update rewrites a user row; the password hash is only touched when provided.
func (r *Repository) Update(ctx context.Context, req models.SaveUserRequest, passwordHash *string) error {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	var tag pgconn.CommandTag
	var err error
	if passwordHash != nil {
		tag, err = r.db.Exec(ctx, `
			UPDATE users SET
				role_id = $1, username = $2, email = $3, password_hash = $4,
				full_name = $5, phone_number = $6, is_active = $7
			WHERE user_id = $8`,
			req.RoleID, req.Username, req.Email, *passwordHash,
			req.FullName, req.PhoneNumber, isActive, *req.UserID)
	} else {
		tag, err = r.db.Exec(ctx, `
			UPDATE users SET
				role_id = $1, username = $2, email = $3,
				full_name = $4, phone_number = $5, is_active = $6
			WHERE user_id = $7`,
			req.RoleID, req.Username, req.Email,
			req.FullName, req.PhoneNumber, isActive, *req.UserID)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.ErrUsernameTaken
		}
		return fmt.Errorf("repository.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Delete removes a user.
func (r *Repository) Delete(ctx context.Context, userID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("repository.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
