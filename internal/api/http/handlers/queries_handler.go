package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/acadtrack/query-portal/internal/api/dto"
	"github.com/acadtrack/query-portal/internal/auth"
	"github.com/acadtrack/query-portal/internal/domain"
	"github.com/acadtrack/query-portal/internal/service"
	apperrors "github.com/acadtrack/query-portal/pkg/errorutil"
)

// QueriesHandler manages query lifecycle endpoints.
type QueriesHandler struct {
	service *service.QueryService
}

// NewQueriesHandler constructs handler.
func NewQueriesHandler(queryService *service.QueryService) *QueriesHandler {
	return &QueriesHandler{service: queryService}
}

// Create POST /queries. User principals create queries for themselves; admin
// principals may act on behalf of a user by supplying user_id.
func (h *QueriesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateQueryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	var userID int64
	switch {
	case principal.User != nil:
		userID = principal.User.ID
	case principal.Admin != nil:
		if req.UserID == nil {
			return apperrors.NewValidationError("user_id required for admin-created queries", nil)
		}
		userID = *req.UserID
	default:
		return apperrors.NewUnauthorized("authentication required")
	}

	category, err := domain.ParseQueryCategory(req.Category)
	if err != nil {
		return apperrors.NewValidationError("unknown category", nil)
	}
	var priority domain.QueryPriority
	if req.Priority != "" {
		priority, err = domain.ParseQueryPriority(req.Priority)
		if err != nil {
			return apperrors.NewValidationError("unknown priority", nil)
		}
	}

	input := service.QueryCreateInput{
		Category:    category,
		Subject:     req.Subject,
		Description: req.Description,
		Priority:    priority,
		ContactInfo: req.ContactInfo,
	}
	if req.Attachment != nil {
		input.Attachment = &service.InlineAttachmentInput{
			Filename: req.Attachment.Filename,
			Content:  req.Attachment.Content,
			MimeType: req.Attachment.MimeType,
			Size:     req.Attachment.Size,
		}
	}

	q, err := h.service.Create(c.Context(), userID, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreateQueryResponse{
		Message: "Query submitted successfully",
		Query:   dto.NewQueryResponse(q),
	})
}

// List GET /queries.
func (h *QueriesHandler) List(c *fiber.Ctx) error {
	input, err := parseQueryListInput(c)
	if err != nil {
		return err
	}
	page, err := h.service.List(c.Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(queryListResponse(page))
}

// ListForUser GET /queries/user/:user_id. Users may only read their own
// queue; admins may read anyone's.
func (h *QueriesHandler) ListForUser(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	userID, err := parseID(c.Params("user_id"))
	if err != nil {
		return apperrors.NewValidationError("invalid user id", nil)
	}
	if principal.SubjectType == domain.SubjectTypeUser && (principal.User == nil || principal.User.ID != userID) {
		return apperrors.NewForbidden("cannot read another user's queries")
	}

	var status *domain.QueryStatus
	if raw := c.Query("status"); raw != "" {
		parsed, err := domain.ParseQueryStatus(raw)
		if err != nil {
			return apperrors.NewValidationError("unknown status", nil)
		}
		status = &parsed
	}

	page, err := h.service.ListForUser(c.Context(), userID, status, c.QueryInt("page", 1), c.QueryInt("per_page", 10))
	if err != nil {
		return err
	}
	return c.JSON(queryListResponse(page))
}

// Get GET /queries/:id.
func (h *QueriesHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseID(c.Params("id"))
	if err != nil {
		return apperrors.NewValidationError("invalid query id", nil)
	}
	q, err := h.service.Get(c.Context(), id)
	if err != nil {
		return err
	}
	if principal.SubjectType == domain.SubjectTypeUser && (principal.User == nil || principal.User.ID != q.UserID) {
		return apperrors.NewForbidden("cannot read another user's query")
	}
	return c.JSON(fiber.Map{"data": dto.NewQueryResponse(q)})
}

// Update PUT /queries/:id.
func (h *QueriesHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return apperrors.NewValidationError("invalid query id", nil)
	}
	var req dto.UpdateQueryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.QueryUpdateInput{
		Subject:          req.Subject,
		Description:      req.Description,
		AssignedMemberID: req.AssignedMemberID,
		AssignedUser:     req.AssignedUser,
		AdminResponse:    req.AdminResponse,
		ResolutionNotes:  req.ResolutionNotes,
		ContactInfo:      req.ContactInfo,
	}
	if req.Category != nil {
		category, err := domain.ParseQueryCategory(*req.Category)
		if err != nil {
			return apperrors.NewValidationError("unknown category", nil)
		}
		input.Category = &category
	}
	if req.Priority != nil {
		priority, err := domain.ParseQueryPriority(*req.Priority)
		if err != nil {
			return apperrors.NewValidationError("unknown priority", nil)
		}
		input.Priority = &priority
	}
	if req.Status != nil {
		status, err := domain.ParseQueryStatus(*req.Status)
		if err != nil {
			return apperrors.NewValidationError("unknown status", nil)
		}
		input.Status = &status
	}
	if req.AssignedTo != nil {
		dept, err := domain.ParseDepartment(*req.AssignedTo)
		if err != nil {
			return apperrors.NewValidationError("unknown department", nil)
		}
		input.AssignedTo = &dept
	}

	q, err := h.service.Update(c.Context(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewQueryResponse(q)})
}

// Delete DELETE /queries/:id.
func (h *QueriesHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return apperrors.NewValidationError("invalid query id", nil)
	}
	if err := h.service.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "query deleted"}})
}

// Stats GET /queries/stats/overview.
func (h *QueriesHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// UploadAttachment POST /queries/:id/upload (multipart).
func (h *QueriesHandler) UploadAttachment(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return apperrors.NewValidationError("invalid query id", nil)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("file required", nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	uniqueName, err := h.service.UploadAttachment(c.Context(), id, content, fileHeader.Header.Get("Content-Type"), fileHeader.Filename)
	if err != nil {
		return err
	}
	return c.JSON(dto.AttachmentUploadResponse{
		Message:  "File uploaded successfully",
		Filename: uniqueName,
	})
}

func parseQueryListInput(c *fiber.Ctx) (service.QueryListInput, error) {
	input := service.QueryListInput{
		Page:    c.QueryInt("page", 1),
		PerPage: c.QueryInt("per_page", 10),
	}
	if raw := c.Query("user_id"); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			return input, apperrors.NewValidationError("invalid user id", nil)
		}
		input.UserID = &id
	}
	if raw := c.Query("category"); raw != "" {
		category, err := domain.ParseQueryCategory(raw)
		if err != nil {
			return input, apperrors.NewValidationError("unknown category", nil)
		}
		input.Category = &category
	}
	if raw := c.Query("status"); raw != "" {
		status, err := domain.ParseQueryStatus(raw)
		if err != nil {
			return input, apperrors.NewValidationError("unknown status", nil)
		}
		input.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority, err := domain.ParseQueryPriority(raw)
		if err != nil {
			return input, apperrors.NewValidationError("unknown priority", nil)
		}
		input.Priority = &priority
	}
	return input, nil
}

func queryListResponse(page *service.QueryPage) dto.QueryListResponse {
	items := make([]dto.QueryResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, dto.NewQueryWithOwnerResponse(&page.Items[i]))
	}
	return dto.QueryListResponse{
		Queries:    items,
		Total:      page.Total,
		Page:       page.Page,
		PerPage:    page.PerPage,
		TotalPages: page.TotalPages,
	}
}
