package dto

import (
	"github.com/acadtrack/query-portal/internal/domain"
	"github.com/acadtrack/query-portal/internal/service"
)

// DepartmentResponse is the static metadata plus derived membership info.
type DepartmentResponse struct {
	ID            domain.Department `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Head          *UserResponse     `json:"head"`
	Members       []UserResponse    `json:"members"`
	TotalMembers  int               `json:"total_members"`
	ActiveMembers int               `json:"active_members"`
}

// DepartmentStatsResponse aggregates membership and query counts.
type DepartmentStatsResponse struct {
	DepartmentID    domain.Department `json:"department_id"`
	DepartmentName  string            `json:"department_name"`
	TotalMembers    int               `json:"total_members"`
	ActiveMembers   int               `json:"active_members"`
	InactiveMembers int               `json:"inactive_members"`
	HasHead         bool              `json:"has_head"`
	HeadName        *string           `json:"head_name"`
	TotalQueries    int64             `json:"total_queries"`
	PendingQueries  int64             `json:"pending_queries"`
	ResolvedQueries int64             `json:"resolved_queries"`
}

// MemberUpdateRequest carries partial member updates.
type MemberUpdateRequest struct {
	FullName   *string `json:"full_name"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Position   *string `json:"position"`
	Status     *string `json:"status"`
	Department *string `json:"department"`
	Role       *string `json:"role"`
}

// TeamMemberRequest payload for the flat team surface.
type TeamMemberRequest struct {
	FullName   string  `json:"full_name"`
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	Department string  `json:"department"`
	Phone      *string `json:"phone"`
	Position   *string `json:"position"`
	Status     string  `json:"status"`
}

// NewDepartmentResponse maps the derived view.
func NewDepartmentResponse(view *service.DepartmentView) DepartmentResponse {
	members := make([]UserResponse, 0, len(view.Members))
	for i := range view.Members {
		members = append(members, NewUserResponse(&view.Members[i]))
	}
	resp := DepartmentResponse{
		ID:            view.Info.ID,
		Name:          view.Info.Name,
		Description:   view.Info.Description,
		Members:       members,
		TotalMembers:  view.TotalMembers,
		ActiveMembers: view.ActiveMembers,
	}
	if view.Head != nil {
		head := NewUserResponse(view.Head)
		resp.Head = &head
	}
	return resp
}

// NewDepartmentStatsResponse maps the stats view.
func NewDepartmentStatsResponse(stats *service.DepartmentStats) DepartmentStatsResponse {
	return DepartmentStatsResponse{
		DepartmentID:    stats.DepartmentID,
		DepartmentName:  stats.DepartmentName,
		TotalMembers:    stats.TotalMembers,
		ActiveMembers:   stats.ActiveMembers,
		InactiveMembers: stats.InactiveMembers,
		HasHead:         stats.HasHead,
		HeadName:        stats.HeadName,
		TotalQueries:    stats.TotalQueries,
		PendingQueries:  stats.PendingQueries,
		ResolvedQueries: stats.ResolvedQueries,
	}
}
