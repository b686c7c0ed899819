package dto

import (
	"time"

	"github.com/spec-kit/request-portal/internal/domain"
)

// SignupRequest registers a portal account.
type SignupRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
	Department string `json:"department"`
}

// LoginRequest authenticates a user.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse carries the issued token and the authenticated profile.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// SetRoleRequest toggles the analyst flag on an account.
type SetRoleRequest struct {
	IsAnalyst bool `json:"is_analyst"`
}

// UserResponse is the public account view; the credential hash never leaves
// the service boundary.
type UserResponse struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Department string    `json:"department"`
	IsAnalyst  bool      `json:"is_analyst"`
	CreatedAt  time.Time `json:"created_at"`
}

// FromUser maps a domain user to its response view.
func FromUser(user *domain.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		FullName:   user.FullName,
		Department: user.Department,
		IsAnalyst:  user.IsAnalyst,
		CreatedAt:  user.CreatedAt,
	}
}
