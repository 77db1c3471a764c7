package service

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/acadtrack/query-portal/internal/auth"
	"github.com/acadtrack/query-portal/internal/config"
	"github.com/acadtrack/query-portal/internal/domain"
	"github.com/acadtrack/query-portal/internal/repository"
	"github.com/acadtrack/query-portal/internal/routing"
	apperrors "github.com/acadtrack/query-portal/pkg/errorutil"
)

const tempPasswordLength = 8

// AdminService manages privileged accounts and admin login.
type AdminService struct {
	admins     repository.AdminRepository
	directory  *routing.Directory
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAdminService builds the service.
func NewAdminService(cfg config.AuthConfig, admins repository.AdminRepository, directory *routing.Directory) *AdminService {
	return &AdminService{
		admins:     admins,
		directory:  directory,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
	}
}

// AdminLoginResult bundles the authenticated account, its dashboard URL and
// the issued token.
type AdminLoginResult struct {
	Admin        *domain.AdminUser
	DashboardURL string
	Token        string
	ExpiresAt    time.Time
}

// Login authenticates a privileged account, refreshes last_login and
// resolves the dashboard the admin lands on.
func (s *AdminService) Login(ctx context.Context, email, password string) (*AdminLoginResult, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid email or password")
		}
		return nil, apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(admin.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid email or password")
	}
	if admin.Status != domain.AdminStatusActive {
		return nil, apperrors.NewUnauthorized("account is inactive or suspended")
	}

	now := time.Now()
	if err := s.admins.UpdateLastLogin(ctx, admin.ID, now); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	admin.LastLogin = &now

	token, exp, err := s.tokenMgr.GenerateToken(admin.ID, domain.SubjectTypeAdmin, &admin.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	return &AdminLoginResult{
		Admin:        admin,
		DashboardURL: s.directory.DashboardURL(admin.Role, admin.Department),
		Token:        token,
		ExpiresAt:    exp,
	}, nil
}

// AdminCreateInput describes privileged account creation.
type AdminCreateInput struct {
	Name       string
	Email      string
	Password   string
	Role       domain.AdminRole
	Department *domain.Department
	Phone      *string
	Status     domain.AdminStatus
}

// Create enforces the role/department pairing: DEPARTMENT_ADMIN requires a
// department, MAIN_ADMIN never carries one.
func (s *AdminService) Create(ctx context.Context, input AdminCreateInput) (*domain.AdminUser, error) {
	if _, err := s.admins.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewValidationError("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewInternalError(err)
	}

	department := input.Department
	switch input.Role {
	case domain.AdminRoleDepartment:
		if department == nil {
			return nil, apperrors.NewValidationError("department admin must be assigned to a department", nil)
		}
	case domain.AdminRoleMain:
		department = nil
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	status := input.Status
	if status == "" {
		status = domain.AdminStatusActive
	}

	admin := &domain.AdminUser{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		Department:   department,
		Phone:        input.Phone,
		Status:       status,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return admin, nil
}

// AdminUpdateInput carries partial updates; nil fields are left untouched.
type AdminUpdateInput struct {
	Name       *string
	Email      *string
	Password   *string
	Role       *domain.AdminRole
	Department *domain.Department
	Phone      *string
	Status     *domain.AdminStatus
}

// Update applies a partial update, re-validating the role/department
// pairing on the resulting record.
func (s *AdminService) Update(ctx context.Context, id int64, input AdminUpdateInput) (*domain.AdminUser, error) {
	admin, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != admin.Email {
		if existing, err := s.admins.GetByEmail(ctx, *input.Email); err == nil && existing.ID != id {
			return nil, apperrors.NewValidationError("email already registered", nil)
		} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInternalError(err)
		}
		admin.Email = *input.Email
	}
	if input.Name != nil {
		admin.Name = *input.Name
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := auth.HashPassword(*input.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		admin.PasswordHash = hash
	}
	if input.Role != nil {
		admin.Role = *input.Role
	}
	if input.Department != nil {
		admin.Department = input.Department
	}
	if input.Phone != nil {
		admin.Phone = input.Phone
	}
	if input.Status != nil {
		admin.Status = *input.Status
	}

	switch admin.Role {
	case domain.AdminRoleDepartment:
		if admin.Department == nil {
			return nil, apperrors.NewValidationError("department admin must be assigned to a department", nil)
		}
	case domain.AdminRoleMain:
		admin.Department = nil
	}

	if err := s.admins.Update(ctx, admin); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("admin user", map[string]any{"admin_id": id})
		}
		return nil, apperrors.NewInternalError(err)
	}
	return admin, nil
}

// Get fetches by id.
func (s *AdminService) Get(ctx context.Context, id int64) (*domain.AdminUser, error) {
	admin, err := s.admins.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("admin user", map[string]any{"admin_id": id})
		}
		return nil, apperrors.NewInternalError(err)
	}
	return admin, nil
}

// List returns all privileged accounts.
func (s *AdminService) List(ctx context.Context) ([]domain.AdminUser, error) {
	admins, err := s.admins.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if admins == nil {
		admins = []domain.AdminUser{}
	}
	return admins, nil
}

// Delete removes a privileged account permanently.
func (s *AdminService) Delete(ctx context.Context, id int64) error {
	if err := s.admins.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("admin user", map[string]any{"admin_id": id})
		}
		return apperrors.NewInternalError(err)
	}
	return nil
}

// ResetPassword stores a freshly generated temporary password and returns
// it so it can be handed to the account owner out of band.
func (s *AdminService) ResetPassword(ctx context.Context, id int64) (*domain.AdminUser, string, error) {
	admin, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}

	temp, err := generateTempPassword(tempPasswordLength)
	if err != nil {
		return nil, "", apperrors.NewInternalError(err)
	}
	hash, err := auth.HashPassword(temp, s.bcryptCost)
	if err != nil {
		return nil, "", apperrors.NewInternalError(err)
	}
	admin.PasswordHash = hash
	if err := s.admins.Update(ctx, admin); err != nil {
		return nil, "", apperrors.NewInternalError(err)
	}
	return admin, temp, nil
}

const tempPasswordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func generateTempPassword(length int) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(tempPasswordAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = tempPasswordAlphabet[n.Int64()]
	}
	return string(out), nil
}
