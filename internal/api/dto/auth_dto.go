package dto

import (
	"time"

	"github.com/spec-kit/student-support/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token and the account snapshot.
type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Account   AccountResponse `json:"account"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// AccountResponse is the public view of an account.
type AccountResponse struct {
	ID          string              `json:"id"`
	Email       string              `json:"email"`
	Name        string              `json:"name"`
	Role        domain.Role         `json:"role"`
	StudentID   *string             `json:"student_id,omitempty"`
	Department  string              `json:"department,omitempty"`
	Permissions []domain.Permission `json:"permissions"`
	LastLoginAt *time.Time          `json:"last_login_at,omitempty"`
}
