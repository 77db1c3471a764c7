package events

import (
	"time"

	"github.com/acadtrack/query-portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventQueryCreated       EventType = "query_created"
	EventQueryStatusChanged EventType = "query_status_changed"
	EventQueryTransferred   EventType = "query_transferred"
	EventQueryResponseAdded EventType = "query_response_added"
	EventQueryDeleted       EventType = "query_deleted"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type    domain.SubjectType `json:"type"`
	UserID  *int64             `json:"user_id,omitempty"`
	AdminID *int64             `json:"admin_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	QueryID   int64       `json:"query_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// QueryCreatedPayload payload.
type QueryCreatedPayload struct {
	Category domain.QueryCategory `json:"category"`
	Priority domain.QueryPriority `json:"priority"`
	Subject  string               `json:"subject"`
}

// QueryStatusChangedPayload payload.
type QueryStatusChangedPayload struct {
	OldStatus domain.QueryStatus `json:"old_status"`
	NewStatus domain.QueryStatus `json:"new_status"`
}

// QueryTransferredPayload payload.
type QueryTransferredPayload struct {
	OldCategory domain.QueryCategory `json:"old_category"`
	NewCategory domain.QueryCategory `json:"new_category"`
	AssignedTo  domain.Department    `json:"assigned_to"`
}

// QueryResponseAddedPayload payload.
type QueryResponseAddedPayload struct {
	ResponsePreview string `json:"response_preview"`
}
