package models

import "errors"

var ErrNotFound = errors.New("requested resource not found")
var ErrForbidden = errors.New("user does not have permission to access this resource")
var ErrValidation = errors.New("invalid input")
var ErrInvalidCredentials = errors.New("invalid username or password")
var ErrUserInactive = errors.New("account is deactivated")
var ErrUsernameTaken = errors.New("username already exists")
var ErrEmailTaken = errors.New("email already registered")
var ErrProtectedUser = errors.New("cannot delete system administrator")

// ErrSameStatus indicates a requested status change is a no-op; the order is
// already in that status. No-op transitions are rejected, not silently accepted.
var ErrSameStatus = errors.New("order is already in the requested status")

// ErrInvalidTransition indicates the requested status is not reachable from
// the order's current status in one step.
var ErrInvalidTransition = errors.New("status transition not allowed")
