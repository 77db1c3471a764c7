package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/acadtrack/query-portal/internal/api/dto"
	"github.com/acadtrack/query-portal/internal/domain"
	"github.com/acadtrack/query-portal/internal/service"
	apperrors "github.com/acadtrack/query-portal/pkg/errorutil"
)

// AdminHandler manages privileged account endpoints.
type AdminHandler struct {
	service *service.AdminService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{service: adminService}
}

// Login POST /admin/login.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	result, err := h.service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AdminLoginResponse{
		Admin:        dto.NewAdminResponse(result.Admin),
		DashboardURL: result.DashboardURL,
		AccessToken:  result.Token,
		TokenType:    "bearer",
		ExpiresAt:    result.ExpiresAt,
	}})
}

// Create POST /admin/users.
func (h *AdminHandler) Create(c *fiber.Ctx) error {
	var req dto.AdminCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("name, email, password required", nil)
	}

	role, err := domain.ParseAdminRole(req.Role)
	if err != nil {
		return apperrors.NewValidationError("unknown admin role", nil)
	}
	var department *domain.Department
	if req.Department != nil && *req.Department != "" {
		dept, err := domain.ParseDepartment(*req.Department)
		if err != nil {
			return apperrors.NewValidationError("unknown department", nil)
		}
		department = &dept
	}
	var status domain.AdminStatus
	if req.Status != nil && *req.Status != "" {
		parsed, err := domain.ParseAdminStatus(*req.Status)
		if err != nil {
			return apperrors.NewValidationError("unknown admin status", nil)
		}
		status = parsed
	}

	admin, err := h.service.Create(c.Context(), service.AdminCreateInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       role,
		Department: department,
		Phone:      req.Phone,
		Status:     status,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewAdminResponse(admin)})
}

// List GET /admin/users.
func (h *AdminHandler) List(c *fiber.Ctx) error {
	admins, err := h.service.List(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.AdminResponse, 0, len(admins))
	for i := range admins {
		items = append(items, dto.NewAdminResponse(&admins[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /admin/users/:id.
func (h *AdminHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return apperrors.NewValidationError("invalid admin id", nil)
	}
	admin, err := h.service.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAdminResponse(admin)})
}

// Update PUT /admin/users/:id.
func (h *AdminHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return apperrors.NewValidationError("invalid admin id", nil)
	}
	var req dto.AdminUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.AdminUpdateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	}
	if req.Role != nil {
		role, err := domain.ParseAdminRole(*req.Role)
		if err != nil {
			return apperrors.NewValidationError("unknown admin role", nil)
		}
		input.Role = &role
	}
	if req.Department != nil && *req.Department != "" {
		dept, err := domain.ParseDepartment(*req.Department)
		if err != nil {
			return apperrors.NewValidationError("unknown department", nil)
		}
		input.Department = &dept
	}
	if req.Status != nil {
		status, err := domain.ParseAdminStatus(*req.Status)
		if err != nil {
			return apperrors.NewValidationError("unknown admin status", nil)
		}
		input.Status = &status
	}

	admin, err := h.service.Update(c.Context(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAdminResponse(admin)})
}

// Delete DELETE /admin/users/:id.
func (h *AdminHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return apperrors.NewValidationError("invalid admin id", nil)
	}
	if err := h.service.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "admin user deleted"}})
}

// ResetPassword POST /admin/users/:id/reset-password.
func (h *AdminHandler) ResetPassword(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return apperrors.NewValidationError("invalid admin id", nil)
	}
	admin, temp, err := h.service.ResetPassword(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ResetPasswordResponse{
		Admin:             dto.NewAdminResponse(admin),
		TemporaryPassword: temp,
	}})
}
