package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/acadtrack/query-portal/internal/api/dto"
	"github.com/acadtrack/query-portal/internal/service"
	apperrors "github.com/acadtrack/query-portal/pkg/errorutil"
)

// DepartmentsHandler manages the derived department views.
type DepartmentsHandler struct {
	service *service.DepartmentService
}

// NewDepartmentsHandler constructs handler.
func NewDepartmentsHandler(departmentService *service.DepartmentService) *DepartmentsHandler {
	return &DepartmentsHandler{service: departmentService}
}

// List GET /departments.
func (h *DepartmentsHandler) List(c *fiber.Ctx) error {
	views, err := h.service.List(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.DepartmentResponse, 0, len(views))
	for i := range views {
		items = append(items, dto.NewDepartmentResponse(&views[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /departments/:id.
func (h *DepartmentsHandler) Get(c *fiber.Ctx) error {
	view, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDepartmentResponse(view)})
}

// Members GET /departments/:id/members.
func (h *DepartmentsHandler) Members(c *fiber.Ctx) error {
	includeInactive := c.QueryBool("include_inactive", false)
	members, err := h.service.Members(c.Context(), c.Params("id"), includeInactive)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(members))
	for i := range members {
		items = append(items, dto.NewUserResponse(&members[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// AddMember POST /departments/:id/members.
func (h *DepartmentsHandler) AddMember(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("full_name, email, password required", nil)
	}

	user, err := h.service.AddMember(c.Context(), c.Params("id"), service.SignupInput{
		FullName:        req.FullName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Phone:           req.Phone,
		Position:        req.Position,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// SetHead PUT /departments/:id/head/:user_id.
func (h *DepartmentsHandler) SetHead(c *fiber.Ctx) error {
	userID, err := parseID(c.Params("user_id"))
	if err != nil {
		return apperrors.NewValidationError("invalid user id", nil)
	}
	user, err := h.service.SetHead(c.Context(), c.Params("id"), userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// UpdateMember PUT /departments/:id/members/:user_id.
func (h *DepartmentsHandler) UpdateMember(c *fiber.Ctx) error {
	userID, err := parseID(c.Params("user_id"))
	if err != nil {
		return apperrors.NewValidationError("invalid user id", nil)
	}
	var req dto.MemberUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.service.UpdateMember(c.Context(), c.Params("id"), userID, service.MemberUpdateInput{
		FullName:   req.FullName,
		Email:      req.Email,
		Phone:      req.Phone,
		Position:   req.Position,
		Status:     req.Status,
		Department: req.Department,
		Role:       req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// RemoveMember DELETE /departments/:id/members/:user_id.
func (h *DepartmentsHandler) RemoveMember(c *fiber.Ctx) error {
	userID, err := parseID(c.Params("user_id"))
	if err != nil {
		return apperrors.NewValidationError("invalid user id", nil)
	}
	if _, err := h.service.RemoveMember(c.Context(), c.Params("id"), userID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "member removed"}})
}

// Stats GET /departments/:id/stats.
func (h *DepartmentsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDepartmentStatsResponse(stats)})
}
