package dto

import (
	"time"

	"github.com/acadtrack/query-portal/internal/domain"
	"github.com/acadtrack/query-portal/internal/repository"
)

// InlineAttachmentRequest embeds a base64 attachment in a create payload.
// Content may carry a data-URL prefix which is stripped before decoding.
type InlineAttachmentRequest struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

// CreateQueryRequest payload. UserID is honored only for admin principals;
// user principals always create queries for themselves.
type CreateQueryRequest struct {
	UserID      *int64                   `json:"user_id"`
	Category    string                   `json:"category"`
	Subject     string                   `json:"subject"`
	Description string                   `json:"description"`
	Priority    string                   `json:"priority"`
	ContactInfo *string                  `json:"contact_info"`
	Attachment  *InlineAttachmentRequest `json:"attachment"`
}

// UpdateQueryRequest carries partial updates.
type UpdateQueryRequest struct {
	Subject          *string `json:"subject"`
	Description      *string `json:"description"`
	Category         *string `json:"category"`
	Priority         *string `json:"priority"`
	Status           *string `json:"status"`
	AssignedTo       *string `json:"assigned_to"`
	AssignedMemberID *int64  `json:"assigned_member_id"`
	AssignedUser     *string `json:"assigned_user"`
	AdminResponse    *string `json:"admin_response"`
	ResolutionNotes  *string `json:"resolution_notes"`
	ContactInfo      *string `json:"contact_info"`
}

// QueryOwner is the owner sub-object embedded in list responses.
type QueryOwner struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// QueryResponse is the full view of a query.
type QueryResponse struct {
	ID                 int64                `json:"id"`
	UserID             int64                `json:"user_id"`
	Category           domain.QueryCategory `json:"category"`
	Subject            string               `json:"subject"`
	Description        string               `json:"description"`
	Priority           domain.QueryPriority `json:"priority"`
	Status             domain.QueryStatus   `json:"status"`
	ContactInfo        *string              `json:"contact_info"`
	AttachmentFilename *string              `json:"attachment_filename"`
	AttachmentPath     *string              `json:"attachment_path"`
	AttachmentMimeType *string              `json:"attachment_mime_type"`
	AttachmentSize     *int64               `json:"attachment_size"`
	AssignedTo         *domain.Department   `json:"assigned_to"`
	AssignedMemberID   *int64               `json:"assigned_member_id"`
	AssignedUser       *string              `json:"assigned_user"`
	ResolutionNotes    *string              `json:"resolution_notes"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
	ResolvedAt         *time.Time           `json:"resolved_at"`
	User               *QueryOwner          `json:"user,omitempty"`
}

// QueryListResponse is the paginated list envelope.
type QueryListResponse struct {
	Queries    []QueryResponse `json:"queries"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PerPage    int             `json:"per_page"`
	TotalPages int64           `json:"total_pages"`
}

// CreateQueryResponse confirms creation.
type CreateQueryResponse struct {
	Message string        `json:"message"`
	Query   QueryResponse `json:"query"`
}

// AttachmentUploadResponse confirms a multipart upload.
type AttachmentUploadResponse struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
}

// NewQueryResponse maps the domain model.
func NewQueryResponse(q *domain.Query) QueryResponse {
	return QueryResponse{
		ID:                 q.ID,
		UserID:             q.UserID,
		Category:           q.Category,
		Subject:            q.Subject,
		Description:        q.Description,
		Priority:           q.Priority,
		Status:             q.Status,
		ContactInfo:        q.ContactInfo,
		AttachmentFilename: q.Attachment.Filename,
		AttachmentPath:     q.Attachment.Path,
		AttachmentMimeType: q.Attachment.MimeType,
		AttachmentSize:     q.Attachment.Size,
		AssignedTo:         q.AssignedTo,
		AssignedMemberID:   q.AssignedMemberID,
		AssignedUser:       q.AssignedUser,
		ResolutionNotes:    q.ResolutionNotes,
		CreatedAt:          q.CreatedAt,
		UpdatedAt:          q.UpdatedAt,
		ResolvedAt:         q.ResolvedAt,
	}
}

// NewQueryWithOwnerResponse maps a joined row, attaching the owner.
func NewQueryWithOwnerResponse(row *repository.QueryWithOwner) QueryResponse {
	resp := NewQueryResponse(&row.Query)
	resp.User = &QueryOwner{Name: row.OwnerName, Email: row.OwnerEmail}
	return resp
}
