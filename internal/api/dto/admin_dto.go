package dto

import (
	"time"

	"github.com/acadtrack/query-portal/internal/domain"
)

// AdminLoginRequest payload.
type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminLoginResponse includes the dashboard the admin is routed to.
type AdminLoginResponse struct {
	Admin        AdminResponse `json:"admin"`
	DashboardURL string        `json:"dashboard_url"`
	AccessToken  string        `json:"access_token"`
	TokenType    string        `json:"token_type"`
	ExpiresAt    time.Time     `json:"expires_at"`
}

// AdminCreateRequest payload.
type AdminCreateRequest struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	Role       string  `json:"role"`
	Department *string `json:"department"`
	Phone      *string `json:"phone"`
	Status     *string `json:"status"`
}

// AdminUpdateRequest carries partial updates.
type AdminUpdateRequest struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Password   *string `json:"password"`
	Role       *string `json:"role"`
	Department *string `json:"department"`
	Phone      *string `json:"phone"`
	Status     *string `json:"status"`
}

// AdminResponse is the public view of a privileged account.
type AdminResponse struct {
	ID         int64              `json:"id"`
	Name       string             `json:"name"`
	Email      string             `json:"email"`
	Role       domain.AdminRole   `json:"role"`
	Department *domain.Department `json:"department"`
	Phone      *string            `json:"phone"`
	Status     domain.AdminStatus `json:"status"`
	LastLogin  *time.Time         `json:"last_login"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// ResetPasswordResponse returns the temporary password out of band.
type ResetPasswordResponse struct {
	Admin             AdminResponse `json:"admin"`
	TemporaryPassword string        `json:"temporary_password"`
}

// NewAdminResponse maps the domain model.
func NewAdminResponse(admin *domain.AdminUser) AdminResponse {
	return AdminResponse{
		ID:         admin.ID,
		Name:       admin.Name,
		Email:      admin.Email,
		Role:       admin.Role,
		Department: admin.Department,
		Phone:      admin.Phone,
		Status:     admin.Status,
		LastLogin:  admin.LastLogin,
		CreatedAt:  admin.CreatedAt,
		UpdatedAt:  admin.UpdatedAt,
	}
}
