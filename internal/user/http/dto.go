package http

import (
	"time"

	"github.com/campuskit/facility-booking-backend/internal/user"
)

// RegisterBody is the payload for creating a single user account.
type RegisterBody struct {
	ID       string `json:"id" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Role     string `json:"role" binding:"omitempty,oneof=student secretary admin"`
	Password string `json:"password" binding:"required"`
}

// BulkRegisterBody carries many accounts at once.
type BulkRegisterBody struct {
	Users []RegisterBody `json:"users" binding:"required,min=1,dive"`
}

// BulkDeleteBody carries the ids to remove.
type BulkDeleteBody struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

// LoginBody is the credential payload.
type LoginBody struct {
	ID       string `json:"id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is the shape of user data returned in API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse bundles the access token with the user profile.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

// BulkResultResponse reports per-id outcomes of a bulk call.
type BulkResultResponse struct {
	Succeeded []string          `json:"succeeded"`
	Failed    map[string]string `json:"failed"`
}

// NewUserResponse converts a domain user to its API shape.
func NewUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// NewBulkResultResponse converts a bulk outcome to its API shape.
func NewBulkResultResponse(r *user.BulkResult) BulkResultResponse {
	succeeded := r.Succeeded
	if succeeded == nil {
		succeeded = make([]string, 0)
	}
	return BulkResultResponse{
		Succeeded: succeeded,
		Failed:    r.Failed,
	}
}
