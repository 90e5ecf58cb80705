package http

import (
	"time"

	"github.com/Flarenzy/simple-auth-api/internal/domain"
)

// UserResponse is the public view of a user. The password hash never leaves the service.
type UserResponse struct {
	ID        string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name      string    `json:"name" example:"Ada Lovelace"`
	Email     string    `json:"email" example:"ada@example.com"`
	CreatedAt time.Time `json:"created_at" example:"2024-05-10T15:04:05Z"`
	UpdatedAt time.Time `json:"updated_at" example:"2024-05-10T15:04:05Z"`
}

// RegisterRequest is the payload accepted when registering a user.
type RegisterRequest struct {
	Name     string `json:"name" example:"Ada Lovelace"`
	Email    string `json:"email" example:"ada@example.com"`
	Password string `json:"password" example:"correct-horse-battery"`
}

// LoginRequest is the payload accepted when logging in.
type LoginRequest struct {
	Email    string `json:"email" example:"ada@example.com"`
	Password string `json:"password" example:"correct-horse-battery"`
}

// LoginResponse carries the bearer token for subsequent requests.
type LoginResponse struct {
	Token     string       `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType string       `json:"token_type" example:"Bearer"`
	ExpiresAt time.Time    `json:"expires_at" example:"2024-05-10T16:04:05Z"`
	User      UserResponse `json:"user"`
}

// ErrorResponse is a simple envelope for error messages.
type ErrorResponse struct {
	Message string `json:"message" example:"Invalid or expired token"`
}

func userToResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        string(u.ID),
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func sessionToResponse(s domain.Session) LoginResponse {
	return LoginResponse{
		Token:     s.Token,
		TokenType: "Bearer",
		ExpiresAt: s.ExpiresAt,
		User:      userToResponse(s.User),
	}
}

func (r RegisterRequest) toInput() domain.RegisterInput {
	return domain.RegisterInput{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
	}
}

func (r LoginRequest) toInput() domain.LoginInput {
	return domain.LoginInput{
		Email:    r.Email,
		Password: r.Password,
	}
}
