package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/acadtrack/query-portal/internal/api/dto"
	"github.com/acadtrack/query-portal/internal/service"
	apperrors "github.com/acadtrack/query-portal/pkg/errorutil"
)

// TeamHandler manages the flat team-member surface.
type TeamHandler struct {
	service *service.TeamService
}

// NewTeamHandler constructs handler.
func NewTeamHandler(teamService *service.TeamService) *TeamHandler {
	return &TeamHandler{service: teamService}
}

// List GET /team-members.
func (h *TeamHandler) List(c *fiber.Ctx) error {
	members, err := h.service.List(c.Context(), c.Query("department"))
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(members))
	for i := range members {
		items = append(items, dto.NewUserResponse(&members[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /team-members/:id.
func (h *TeamHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return apperrors.NewValidationError("invalid member id", nil)
	}
	member, err := h.service.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(member)})
}

// Create POST /team-members.
func (h *TeamHandler) Create(c *fiber.Ctx) error {
	var req dto.TeamMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.FullName == "" || req.Email == "" {
		return apperrors.NewValidationError("full_name and email required", nil)
	}

	member, err := h.service.Create(c.Context(), service.TeamMemberInput{
		FullName:   req.FullName,
		Email:      req.Email,
		Password:   req.Password,
		Department: req.Department,
		Phone:      req.Phone,
		Position:   req.Position,
		Status:     req.Status,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(member)})
}

// Update PUT /team-members/:id.
func (h *TeamHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return apperrors.NewValidationError("invalid member id", nil)
	}
	var req dto.MemberUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	member, err := h.service.Update(c.Context(), id, service.MemberUpdateInput{
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
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(member)})
}

// Delete DELETE /team-members/:id.
func (h *TeamHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return apperrors.NewValidationError("invalid member id", nil)
	}
	if err := h.service.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "team member deleted"}})
}
