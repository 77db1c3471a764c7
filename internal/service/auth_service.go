package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/acadtrack/query-portal/internal/auth"
	"github.com/acadtrack/query-portal/internal/config"
	"github.com/acadtrack/query-portal/internal/domain"
	"github.com/acadtrack/query-portal/internal/repository"
	apperrors "github.com/acadtrack/query-portal/pkg/errorutil"
)

// AuthService coordinates signup, login and directory lookups for the user
// account class.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
	}
}

// SignupInput describes account creation.
type SignupInput struct {
	FullName        string
	Email           string
	Password        string
	ConfirmPassword string
	Role            string
	Department      string
	Phone           *string
	Position        *string
}

// Signup creates a new user account. Password mismatch and duplicate email
// are rejected before anything is persisted.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*domain.User, string, time.Time, error) {
	if input.Password != input.ConfirmPassword {
		return nil, "", time.Time{}, apperrors.NewValidationError("passwords do not match", nil)
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, "", time.Time{}, apperrors.NewValidationError("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}

	role := strings.TrimSpace(input.Role)
	if role == "" {
		role = domain.DefaultUserRole
	}

	// A department-name role enrolls the account into that department's
	// staff; otherwise an explicit department field may be supplied.
	var department *domain.Department
	if dept, err := domain.ParseDepartment(role); err == nil {
		department = &dept
	} else if input.Department != "" {
		dept, err := domain.ParseDepartment(input.Department)
		if err != nil {
			return nil, "", time.Time{}, apperrors.NewValidationError("unknown department", nil)
		}
		department = &dept
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		FullName:     input.FullName,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
		Department:   department,
		IsActive:     true,
		Phone:        input.Phone,
		Position:     input.Position,
		Status:       domain.DefaultUserStatus,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, domain.SubjectTypeUser, nil)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return user, token, exp, nil
}

// Login authenticates a user and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid email or password")
		}
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid email or password")
	}
	if !user.IsActive {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("account inactive")
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, domain.SubjectTypeUser, nil)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return user, token, exp, nil
}

// ListUsers pages through the whole directory.
func (s *AuthService) ListUsers(ctx context.Context, skip, limit int) ([]domain.User, int64, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}
	if skip < 0 {
		skip = 0
	}

	users, err := s.users.List(ctx, repository.UserFilter{Skip: skip, Limit: limit})
	if err != nil {
		return nil, 0, apperrors.NewInternalError(err)
	}
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, 0, apperrors.NewInternalError(err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, total, nil
}

// GetUser fetches by id.
func (s *AuthService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// GetUserByEmail fetches by email.
func (s *AuthService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"email": email})
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewValidationError("current password is incorrect", nil)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
