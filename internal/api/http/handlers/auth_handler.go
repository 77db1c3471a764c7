package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/acadtrack/query-portal/internal/api/dto"
	"github.com/acadtrack/query-portal/internal/auth"
	"github.com/acadtrack/query-portal/internal/domain"
	"github.com/acadtrack/query-portal/internal/service"
	apperrors "github.com/acadtrack/query-portal/pkg/errorutil"
)

// AuthHandler manages user signup, login and directory endpoints.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Signup POST /auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("full_name, email, password required", nil)
	}

	user, token, exp, err := h.service.Signup(c.Context(), service.SignupInput{
		FullName:        req.FullName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Role:            req.Role,
		Department:      req.Department,
		Phone:           req.Phone,
		Position:        req.Position,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.AuthResponse{
		User:        dto.NewUserResponse(user),
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   exp,
	}})
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, token, exp, err := h.service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AuthResponse{
		User:        dto.NewUserResponse(user),
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   exp,
	}})
}

// ListUsers GET /auth/users.
func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	skip := c.QueryInt("skip", 0)
	limit := c.QueryInt("limit", 100)

	users, total, err := h.service.ListUsers(c.Context(), skip, limit)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": dto.UserListResponse{Users: items, Total: total}})
}

// GetUser GET /auth/users/:id.
func (h *AuthHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return apperrors.NewValidationError("invalid user id", nil)
	}
	user, err := h.service.GetUser(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// GetUserByEmail GET /auth/users/email/:email.
func (h *AuthHandler) GetUserByEmail(c *fiber.Ctx) error {
	email := c.Params("email")
	if email == "" {
		return apperrors.NewValidationError("email required", nil)
	}
	user, err := h.service.GetUserByEmail(c.Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// ChangePassword POST /auth/users/:id/change-password. Admins may change any
// account; users only their own.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseID(c.Params("id"))
	if err != nil {
		return apperrors.NewValidationError("invalid user id", nil)
	}
	if principal.SubjectType == domain.SubjectTypeUser && (principal.User == nil || principal.User.ID != id) {
		return apperrors.NewForbidden("cannot change another user's password")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.NewPassword == "" {
		return apperrors.NewValidationError("new_password required", nil)
	}

	if err := h.service.ChangePassword(c.Context(), id, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "password changed"}})
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}
