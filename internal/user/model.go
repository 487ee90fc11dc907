package user

import (
	"net/http"
	"time"

	"github.com/campuskit/facility-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "user not found")
	ErrAlreadyExists      = apperror.New(http.StatusConflict, "user id or email already registered")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid user id or password")
	ErrInvalidRole        = apperror.New(http.StatusBadRequest, "invalid role")
	ErrMissingFields      = apperror.New(http.StatusBadRequest, "user id, email and password are required")
	ErrPasswordTooShort   = apperror.New(http.StatusBadRequest, "password must be at least 8 characters")
)

/// Role determines what a user may do: students book slots, secretaries manage
// interval requests, admins manage everything.
type Role string

const (
	RoleStudent   Role = "student"
	RoleSecretary Role = "secretary"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleSecretary, RoleAdmin:
		return true
	}
	return false
}

// User is an account in the identity store. The ID is the institution-issued
// identifier (roll number / staff code), used as an opaque key everywhere else.
type User struct {
	ID           string
	Email        string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
}
