package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/acadtrack/query-portal/internal/auth"
	"github.com/acadtrack/query-portal/internal/config"
	"github.com/acadtrack/query-portal/internal/domain"
	"github.com/acadtrack/query-portal/internal/repository"
	"github.com/acadtrack/query-portal/internal/routing"
	apperrors "github.com/acadtrack/query-portal/pkg/errorutil"
)

// DepartmentService projects the user directory onto the static department
// table. Departments have no persisted state of their own.
type DepartmentService struct {
	users      repository.UserRepository
	queries    repository.QueryRepository
	directory  *routing.Directory
	bcryptCost int
}

// NewDepartmentService builds the service.
func NewDepartmentService(cfg config.AuthConfig, users repository.UserRepository, queries repository.QueryRepository, directory *routing.Directory) *DepartmentService {
	return &DepartmentService{
		users:      users,
		queries:    queries,
		directory:  directory,
		bcryptCost: cfg.BcryptCost,
	}
}

// DepartmentView is the derived read model for one department.
type DepartmentView struct {
	Info          routing.DepartmentInfo
	Head          *domain.User
	Members       []domain.User
	TotalMembers  int
	ActiveMembers int
}

// DepartmentStats extends the view with query counts for queries owned by
// the department's members.
type DepartmentStats struct {
	DepartmentID    domain.Department
	DepartmentName  string
	TotalMembers    int
	ActiveMembers   int
	InactiveMembers int
	HasHead         bool
	HeadName        *string
	TotalQueries    int64
	PendingQueries  int64
	ResolvedQueries int64
}

// Resolve parses a department identifier case-insensitively against the
// static table.
func (s *DepartmentService) Resolve(id string) (routing.DepartmentInfo, error) {
	info, ok := s.directory.Lookup(id)
	if !ok {
		return routing.DepartmentInfo{}, apperrors.NewNotFound("department", map[string]any{"department_id": id})
	}
	return info, nil
}

// List builds the derived view for every department.
func (s *DepartmentService) List(ctx context.Context) ([]DepartmentView, error) {
	infos := s.directory.Departments()
	views := make([]DepartmentView, 0, len(infos))
	for _, info := range infos {
		view, err := s.buildView(ctx, info)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// Get builds the derived view for one department.
func (s *DepartmentService) Get(ctx context.Context, id string) (*DepartmentView, error) {
	info, err := s.Resolve(id)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, info)
}

func (s *DepartmentService) buildView(ctx context.Context, info routing.DepartmentInfo) (*DepartmentView, error) {
	dept := info.ID
	members, err := s.users.List(ctx, repository.UserFilter{Department: &dept, ActiveOnly: true})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	view := &DepartmentView{
		Info:          info,
		Members:       members,
		TotalMembers:  len(members),
		ActiveMembers: len(members),
	}
	view.Head = headOf(members)
	return view, nil
}

// headOf picks the flagged head; with no flag set anywhere it falls back to
// the member with the lowest id.
func headOf(members []domain.User) *domain.User {
	for i := range members {
		if members[i].IsDepartmentHead {
			return &members[i]
		}
	}
	if len(members) == 0 {
		return nil
	}
	lowest := &members[0]
	for i := range members[1:] {
		if members[i+1].ID < lowest.ID {
			lowest = &members[i+1]
		}
	}
	return lowest
}

// Members lists a department's members, optionally including inactive ones.
func (s *DepartmentService) Members(ctx context.Context, id string, includeInactive bool) ([]domain.User, error) {
	info, err := s.Resolve(id)
	if err != nil {
		return nil, err
	}
	dept := info.ID
	members, err := s.users.List(ctx, repository.UserFilter{Department: &dept, ActiveOnly: !includeInactive})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if members == nil {
		members = []domain.User{}
	}
	return members, nil
}

// AddMember creates a new user enrolled in the department.
func (s *DepartmentService) AddMember(ctx context.Context, id string, input SignupInput) (*domain.User, error) {
	info, err := s.Resolve(id)
	if err != nil {
		return nil, err
	}

	if input.Password != input.ConfirmPassword {
		return nil, apperrors.NewValidationError("passwords do not match", nil)
	}
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewValidationError("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewInternalError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	dept := info.ID
	user := &domain.User{
		FullName:     input.FullName,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         strings.ToLower(string(dept)),
		Department:   &dept,
		IsActive:     true,
		Phone:        input.Phone,
		Position:     input.Position,
		Status:       domain.DefaultUserStatus,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// SetHead designates the user as department head. All other members' head
// flags are cleared in the same transaction, keeping the single-head
// invariant even under concurrent edits.
func (s *DepartmentService) SetHead(ctx context.Context, id string, userID int64) (*domain.User, error) {
	info, err := s.Resolve(id)
	if err != nil {
		return nil, err
	}

	user, err := s.memberOf(ctx, info.ID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.users.SetDepartmentHead(ctx, info.ID, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.NewInternalError(err)
	}
	user.IsDepartmentHead = true
	return user, nil
}

// MemberUpdateInput carries partial member updates.
type MemberUpdateInput struct {
	FullName   *string
	Email      *string
	Phone      *string
	Position   *string
	Status     *string
	Department *string
	Role       *string
}

// UpdateMember applies a partial update to a department member.
func (s *DepartmentService) UpdateMember(ctx context.Context, id string, userID int64, input MemberUpdateInput) (*domain.User, error) {
	info, err := s.Resolve(id)
	if err != nil {
		return nil, err
	}

	user, err := s.memberOf(ctx, info.ID, userID)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}
	if input.Position != nil {
		user.Position = input.Position
	}
	if input.Status != nil {
		user.Status = *input.Status
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.Department != nil && *input.Department != "" {
		dept, err := domain.ParseDepartment(*input.Department)
		if err != nil {
			return nil, apperrors.NewValidationError("unknown department", nil)
		}
		user.Department = &dept
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// RemoveMember soft-deletes a member: the record stays, flagged inactive.
func (s *DepartmentService) RemoveMember(ctx context.Context, id string, userID int64) (*domain.User, error) {
	info, err := s.Resolve(id)
	if err != nil {
		return nil, err
	}

	user, err := s.memberOf(ctx, info.ID, userID)
	if err != nil {
		return nil, err
	}

	user.IsActive = false
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// Stats joins member counts with query counts for the department.
func (s *DepartmentService) Stats(ctx context.Context, id string) (*DepartmentStats, error) {
	info, err := s.Resolve(id)
	if err != nil {
		return nil, err
	}

	dept := info.ID
	all, err := s.users.List(ctx, repository.UserFilter{Department: &dept})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	active := make([]domain.User, 0, len(all))
	inactive := 0
	for _, u := range all {
		if u.IsActive {
			active = append(active, u)
		} else {
			inactive++
		}
	}

	stats := &DepartmentStats{
		DepartmentID:    dept,
		DepartmentName:  info.Name,
		TotalMembers:    len(all),
		ActiveMembers:   len(active),
		InactiveMembers: inactive,
	}

	for i := range active {
		if active[i].IsDepartmentHead {
			stats.HasHead = true
			stats.HeadName = &active[i].FullName
			break
		}
	}

	counts, err := s.queries.CountByOwnerDepartment(ctx, dept)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	stats.TotalQueries = counts.Total
	stats.PendingQueries = counts.Pending
	stats.ResolvedQueries = counts.Resolved
	return stats, nil
}

func (s *DepartmentService) memberOf(ctx context.Context, dept domain.Department, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.NewInternalError(err)
	}
	if user.Department == nil || *user.Department != dept {
		return nil, apperrors.NewValidationError(fmt.Sprintf("user is not a member of %s", dept), nil)
	}
	return user, nil
}
