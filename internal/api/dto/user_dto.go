package dto

import (
	"time"

	"github.com/acadtrack/query-portal/internal/domain"
)

// SignupRequest payload.
type SignupRequest struct {
	FullName        string  `json:"full_name"`
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirm_password"`
	Role            string  `json:"role"`
	Department      string  `json:"department"`
	Phone           *string `json:"phone"`
	Position        *string `json:"position"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UserResponse is the public view of a user account.
type UserResponse struct {
	ID               int64              `json:"id"`
	FullName         string             `json:"full_name"`
	Email            string             `json:"email"`
	Role             string             `json:"role"`
	Department       *domain.Department `json:"department"`
	IsDepartmentHead bool               `json:"is_department_head"`
	IsActive         bool               `json:"is_active"`
	Phone            *string            `json:"phone"`
	Position         *string            `json:"position"`
	Status           string             `json:"status"`
	CreatedAt        time.Time          `json:"created_at"`
}

// AuthResponse bundles the account with its issued token.
type AuthResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

// UserListResponse pages through the user directory.
type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int64          `json:"total"`
}

// NewUserResponse maps the domain model.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:               user.ID,
		FullName:         user.FullName,
		Email:            user.Email,
		Role:             user.Role,
		Department:       user.Department,
		IsDepartmentHead: user.IsDepartmentHead,
		IsActive:         user.IsActive,
		Phone:            user.Phone,
		Position:         user.Position,
		Status:           user.Status,
		CreatedAt:        user.CreatedAt,
	}
}
