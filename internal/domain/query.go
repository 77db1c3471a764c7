package domain

import (
	"fmt"
	"strings"
	"time"
)

// QueryCategory routes a query to a department queue.
type QueryCategory string

const (
	CategoryIT             QueryCategory = "IT"
	CategoryMaintenance    QueryCategory = "MAINTENANCE"
	CategoryRector         QueryCategory = "RECTOR"
	CategoryWarden         QueryCategory = "WARDEN"
	CategoryAdministration QueryCategory = "ADMINISTRATION"
)

// QueryCategories returns all categories in routing-table order.
func QueryCategories() []QueryCategory {
	return []QueryCategory{
		CategoryIT,
		CategoryMaintenance,
		CategoryRector,
		CategoryWarden,
		CategoryAdministration,
	}
}

// ParseQueryCategory rejects values outside the closed set.
func ParseQueryCategory(raw string) (QueryCategory, error) {
	cat := QueryCategory(strings.ToUpper(strings.TrimSpace(raw)))
	switch cat {
	case CategoryIT, CategoryMaintenance, CategoryRector, CategoryWarden, CategoryAdministration:
		return cat, nil
	}
	return "", fmt.Errorf("unknown category %q", raw)
}

// QueryPriority enumerates urgency levels.
type QueryPriority string

const (
	PriorityLow    QueryPriority = "LOW"
	PriorityMedium QueryPriority = "MEDIUM"
	PriorityHigh   QueryPriority = "HIGH"
)

// QueryPriorities returns all priorities.
func QueryPriorities() []QueryPriority {
	return []QueryPriority{PriorityLow, PriorityMedium, PriorityHigh}
}

// ParseQueryPriority rejects values outside the closed set.
func ParseQueryPriority(raw string) (QueryPriority, error) {
	p := QueryPriority(strings.ToUpper(strings.TrimSpace(raw)))
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	}
	return "", fmt.Errorf("unknown priority %q", raw)
}

// QueryStatus enumerates lifecycle states for queries.
type QueryStatus string

const (
	StatusPending    QueryStatus = "PENDING"
	StatusInProgress QueryStatus = "IN_PROGRESS"
	StatusResolved   QueryStatus = "RESOLVED"
	StatusClosed     QueryStatus = "CLOSED"
)

// QueryStatuses returns all statuses.
func QueryStatuses() []QueryStatus {
	return []QueryStatus{StatusPending, StatusInProgress, StatusResolved, StatusClosed}
}

// ParseQueryStatus rejects values outside the closed set.
func ParseQueryStatus(raw string) (QueryStatus, error) {
	s := QueryStatus(strings.ToUpper(strings.TrimSpace(raw)))
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusClosed:
		return s, nil
	}
	return "", fmt.Errorf("unknown status %q", raw)
}

// Attachment holds metadata for a file attached to a query. Data keeps the
// raw base64 payload so the record stays usable even when the file write
// under the upload directory failed.
type Attachment struct {
	Filename *string
	Path     *string
	Data     *string
	MimeType *string
	Size     *int64
}

// Present reports whether any attachment metadata is stored.
func (a Attachment) Present() bool {
	return a.Filename != nil
}

// Query is the aggregate for user-submitted support requests.
type Query struct {
	ID               int64
	UserID           int64
	Category         QueryCategory
	Subject          string
	Description      string
	Priority         QueryPriority
	Status           QueryStatus
	ContactInfo      *string
	Attachment       Attachment
	AssignedTo       *Department
	AssignedMemberID *int64
	AssignedUser     *string
	ResolutionNotes  *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ResolvedAt       *time.Time
}

// QueryStats aggregates counts across the whole query table. Every enum
// member is present as a key even at zero.
type QueryStats struct {
	TotalQueries      int64                   `json:"total_queries"`
	PendingQueries    int64                   `json:"pending_queries"`
	InProgressQueries int64                   `json:"in_progress_queries"`
	ResolvedQueries   int64                   `json:"resolved_queries"`
	ClosedQueries     int64                   `json:"closed_queries"`
	ByCategory        map[QueryCategory]int64 `json:"by_category"`
	ByPriority        map[QueryPriority]int64 `json:"by_priority"`
}
