package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadtrack/query-portal/internal/auth"
	"github.com/acadtrack/query-portal/internal/config"
	"github.com/acadtrack/query-portal/internal/domain"
	"github.com/acadtrack/query-portal/internal/routing"
	apperrors "github.com/acadtrack/query-portal/pkg/errorutil"
)

func newAdminFixture() (*AdminService, *fakeAdminRepo) {
	admins := newFakeAdminRepo()
	svc := NewAdminService(config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		BcryptCost:            4,
	}, admins, routing.NewDirectory())
	return svc, admins
}

func seedAdmin(t *testing.T, admins *fakeAdminRepo, email string, role domain.AdminRole, dept *domain.Department, status domain.AdminStatus) int64 {
	t.Helper()
	hash, err := auth.HashPassword("adminpass", 4)
	require.NoError(t, err)
	admin := &domain.AdminUser{
		Name:         "Seed Admin",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Department:   dept,
		Status:       status,
	}
	require.NoError(t, admins.Create(context.Background(), admin))
	return admin.ID
}

func TestAdminLoginDashboardRouting(t *testing.T) {
	svc, admins := newAdminFixture()
	ctx := context.Background()

	seedAdmin(t, admins, "main@example.com", domain.AdminRoleMain, nil, domain.AdminStatusActive)
	dept := domain.DepartmentWarden
	seedAdmin(t, admins, "warden@example.com", domain.AdminRoleDepartment, &dept, domain.AdminStatusActive)

	result, err := svc.Login(ctx, "main@example.com", "adminpass")
	require.NoError(t, err)
	assert.Equal(t, "/admin/dashboard.html", result.DashboardURL)
	assert.NotEmpty(t, result.Token)
	assert.NotNil(t, result.Admin.LastLogin)

	result, err = svc.Login(ctx, "warden@example.com", "adminpass")
	require.NoError(t, err)
	assert.Equal(t, "/dashboards/warden/warden-dashboard.html", result.DashboardURL)
}

func TestAdminLoginRejections(t *testing.T) {
	svc, admins := newAdminFixture()
	ctx := context.Background()

	seedAdmin(t, admins, "inactive@example.com", domain.AdminRoleMain, nil, domain.AdminStatusInactive)
	seedAdmin(t, admins, "suspended@example.com", domain.AdminRoleMain, nil, domain.AdminStatusSuspended)
	seedAdmin(t, admins, "ok@example.com", domain.AdminRoleMain, nil, domain.AdminStatusActive)

	_, err := svc.Login(ctx, "ghost@example.com", "adminpass")
	assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)

	_, err = svc.Login(ctx, "ok@example.com", "wrongpass")
	assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)

	_, err = svc.Login(ctx, "inactive@example.com", "adminpass")
	assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)

	_, err = svc.Login(ctx, "suspended@example.com", "adminpass")
	assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)
}

func TestAdminCreateRoleDepartmentPairing(t *testing.T) {
	svc, _ := newAdminFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, AdminCreateInput{
		Name:     "No Dept",
		Email:    "nodept@example.com",
		Password: "adminpass",
		Role:     domain.AdminRoleDepartment,
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	dept := domain.DepartmentIT
	admin, err := svc.Create(ctx, AdminCreateInput{
		Name:       "Main With Dept",
		Email:      "main@example.com",
		Password:   "adminpass",
		Role:       domain.AdminRoleMain,
		Department: &dept,
	})
	require.NoError(t, err)
	// MAIN_ADMIN never carries a department, even when one is supplied.
	assert.Nil(t, admin.Department)
	assert.Equal(t, domain.AdminStatusActive, admin.Status)

	deptAdmin, err := svc.Create(ctx, AdminCreateInput{
		Name:       "Dept Admin",
		Email:      "dept@example.com",
		Password:   "adminpass",
		Role:       domain.AdminRoleDepartment,
		Department: &dept,
	})
	require.NoError(t, err)
	require.NotNil(t, deptAdmin.Department)
	assert.Equal(t, domain.DepartmentIT, *deptAdmin.Department)

	_, err = svc.Create(ctx, AdminCreateInput{
		Name:     "Duplicate",
		Email:    "dept@example.com",
		Password: "adminpass",
		Role:     domain.AdminRoleMain,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email already registered")
}

func TestAdminUpdateRevalidatesPairing(t *testing.T) {
	svc, admins := newAdminFixture()
	ctx := context.Background()

	dept := domain.DepartmentIT
	id := seedAdmin(t, admins, "dept@example.com", domain.AdminRoleDepartment, &dept, domain.AdminStatusActive)

	mainRole := domain.AdminRoleMain
	updated, err := svc.Update(ctx, id, AdminUpdateInput{Role: &mainRole})
	require.NoError(t, err)
	assert.Nil(t, updated.Department)

	deptRole := domain.AdminRoleDepartment
	_, err = svc.Update(ctx, id, AdminUpdateInput{Role: &deptRole})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	warden := domain.DepartmentWarden
	updated, err = svc.Update(ctx, id, AdminUpdateInput{Role: &deptRole, Department: &warden})
	require.NoError(t, err)
	require.NotNil(t, updated.Department)
	assert.Equal(t, domain.DepartmentWarden, *updated.Department)
}

func TestAdminResetPassword(t *testing.T) {
	svc, admins := newAdminFixture()
	ctx := context.Background()

	id := seedAdmin(t, admins, "reset@example.com", domain.AdminRoleMain, nil, domain.AdminStatusActive)

	admin, temp, err := svc.ResetPassword(ctx, id)
	require.NoError(t, err)
	assert.Len(t, temp, 8)
	assert.NoError(t, auth.ComparePassword(admin.PasswordHash, temp))

	// Old password no longer works.
	_, err = svc.Login(ctx, "reset@example.com", "adminpass")
	assert.Error(t, err)
	_, err = svc.Login(ctx, "reset@example.com", temp)
	assert.NoError(t, err)

	_, _, err = svc.ResetPassword(ctx, 999)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAdminDeleteMiss(t *testing.T) {
	svc, _ := newAdminFixture()
	err := svc.Delete(context.Background(), 123)
	assert.True(t, apperrors.IsNotFound(err))
}
