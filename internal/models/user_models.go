package models

import "time"

// Role names as stored in the roles table.
const (
	RoleCustomer      = "Customer"
	RoleAdministrator = "Administrator"
	RoleSales         = "Sales Personnel"
	RoleManager       = "Manager"
)

// Role IDs seeded by the initial migration.
const (
	RoleIDCustomer      int64 = 1
	RoleIDAdministrator int64 = 2
	RoleIDSales         int64 = 3
	RoleIDManager       int64 = 4
)

// User represents an account in any role. PasswordHash is never serialized.
type User struct {
	ID           int64      `json:"user_id"`
	RoleID       int64      `json:"role_id"`
	RoleName     string     `json:"role_name"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	FullName     string     `json:"full_name"`
	PhoneNumber  string     `json:"phone_number"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	PasswordHash string     `json:"-"`
}

// RegisterRequest is the payload for customer self-registration.
type RegisterRequest struct {
	Username    string `json:"username" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	FullName    string `json:"full_name" validate:"required"`
	PhoneNumber string `json:"phone_number"`
}

// LoginRequest carries a username or email plus the password.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// SaveUserRequest is the admin payload for creating or updating a user.
// Password is optional on update; when present it must meet the minimum length.
type SaveUserRequest struct {
	UserID      *int64  `json:"user_id,omitempty"`
	RoleID      int64   `json:"role_id" validate:"required,min=1,max=4"`
	Username    string  `json:"username" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
	FullName    string  `json:"full_name" validate:"required"`
	PhoneNumber string  `json:"phone_number"`
	Password    *string `json:"password,omitempty" validate:"omitempty,min=6"`
	IsActive    *bool   `json:"is_active,omitempty"`
}
