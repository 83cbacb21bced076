package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// LoginRequest payload. Role is optional: when present the caller asserts
// which role it expects to log in as.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"omitempty"`
}

// RefreshRequest payload.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// LogoutRequest payload.
type LogoutRequest struct {
	Refresh string `json:"refresh"`
}

// CreateUserRequest payload for admin user creation.
type CreateUserRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,password_policy"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	Role            string `json:"role" validate:"required,oneof=user admin"`
}

// UserResponse is the public shape of an account. Password hash never leaves
// the server.
type UserResponse struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	Role        domain.Role `json:"role"`
	IsActive    bool        `json:"is_active"`
	IsBlocked   bool        `json:"is_blocked"`
	IsStaff     bool        `json:"is_staff"`
	IsSuperuser bool        `json:"is_superuser"`
	CreatedAt   time.Time   `json:"created_at"`
}

// TokensResponse is the credential pair shape.
type TokensResponse struct {
	Access           string    `json:"access"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	Refresh          string    `json:"refresh"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		Role:        user.Role,
		IsActive:    user.IsActive,
		IsBlocked:   user.IsBlocked,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
		CreatedAt:   user.CreatedAt,
	}
}

// NewTokensResponse maps a credential pair.
func NewTokensResponse(pair *domain.CredentialPair) TokensResponse {
	return TokensResponse{
		Access:           pair.Access,
		AccessExpiresAt:  pair.AccessExpiresAt,
		Refresh:          pair.Refresh,
		RefreshExpiresAt: pair.RefreshExpiresAt,
	}
}
