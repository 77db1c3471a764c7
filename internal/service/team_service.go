package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/acadtrack/query-portal/internal/auth"
	"github.com/acadtrack/query-portal/internal/config"
	"github.com/acadtrack/query-portal/internal/domain"
	"github.com/acadtrack/query-portal/internal/repository"
	apperrors "github.com/acadtrack/query-portal/pkg/errorutil"
)

// defaultTeamMemberPassword seeds accounts created through the team surface;
// owners are expected to change it on first login.
const defaultTeamMemberPassword = "defaultpassword123"

// TeamService manages staff accounts through the flat team-member surface.
// Unlike the department surface, deletes here are permanent.
type TeamService struct {
	users      repository.UserRepository
	bcryptCost int
}

// NewTeamService builds the service.
func NewTeamService(cfg config.AuthConfig, users repository.UserRepository) *TeamService {
	return &TeamService{users: users, bcryptCost: cfg.BcryptCost}
}

// TeamMemberInput describes team member creation.
type TeamMemberInput struct {
	FullName   string
	Email      string
	Password   string
	Department string
	Phone      *string
	Position   *string
	Status     string
}

// List returns members of one department, defaulting to ADMINISTRATION.
func (s *TeamService) List(ctx context.Context, department string) ([]domain.User, error) {
	dept := domain.DepartmentAdministration
	if department != "" {
		parsed, err := domain.ParseDepartment(department)
		if err != nil {
			return nil, apperrors.NewValidationError("unknown department", nil)
		}
		dept = parsed
	}

	members, err := s.users.List(ctx, repository.UserFilter{Department: &dept})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if members == nil {
		members = []domain.User{}
	}
	return members, nil
}

// Get fetches one member by id.
func (s *TeamService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("team member", map[string]any{"member_id": id})
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// Create registers a staff account. An omitted password falls back to the
// shared default; an omitted department falls back to ADMINISTRATION.
func (s *TeamService) Create(ctx context.Context, input TeamMemberInput) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewValidationError("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewInternalError(err)
	}

	dept := domain.DepartmentAdministration
	if input.Department != "" {
		parsed, err := domain.ParseDepartment(input.Department)
		if err != nil {
			return nil, apperrors.NewValidationError("unknown department", nil)
		}
		dept = parsed
	}

	password := input.Password
	if password == "" {
		password = defaultTeamMemberPassword
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	status := input.Status
	if status == "" {
		status = domain.DefaultUserStatus
	}

	user := &domain.User{
		FullName:     input.FullName,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         strings.ToLower(string(dept)),
		Department:   &dept,
		IsActive:     true,
		Phone:        input.Phone,
		Position:     input.Position,
		Status:       status,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// Update applies a partial update to a team member.
func (s *TeamService) Update(ctx context.Context, id int64, input MemberUpdateInput) (*domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != user.Email {
		if existing, err := s.users.GetByEmail(ctx, *input.Email); err == nil && existing.ID != id {
			return nil, apperrors.NewValidationError("email already registered", nil)
		} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInternalError(err)
		}
		user.Email = *input.Email
	}
	if input.FullName != nil {
		user.FullName = *input.FullName
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

// Delete removes the account permanently.
func (s *TeamService) Delete(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("team member", map[string]any{"member_id": id})
		}
		return apperrors.NewInternalError(err)
	}
	return nil
}
