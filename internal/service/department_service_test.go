package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadtrack/query-portal/internal/config"
	"github.com/acadtrack/query-portal/internal/domain"
	"github.com/acadtrack/query-portal/internal/repository"
	"github.com/acadtrack/query-portal/internal/routing"
	apperrors "github.com/acadtrack/query-portal/pkg/errorutil"
)

func newDepartmentFixture() (*DepartmentService, *fakeUserRepo, *fakeQueryRepo) {
	users := newFakeUserRepo()
	queries := newFakeQueryRepo(users)
	svc := NewDepartmentService(config.AuthConfig{BcryptCost: 4}, users, queries, routing.NewDirectory())
	return svc, users, queries
}

func addDeptMember(t *testing.T, users *fakeUserRepo, dept domain.Department, name string, head, active bool) int64 {
	t.Helper()
	user := &domain.User{
		FullName:         name,
		Email:            name + "@example.com",
		Role:             "it",
		Department:       &dept,
		IsDepartmentHead: head,
		IsActive:         active,
		Status:           "Active",
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user.ID
}

func TestSetHeadSingleHeadInvariant(t *testing.T) {
	svc, users, _ := newDepartmentFixture()
	ctx := context.Background()

	first := addDeptMember(t, users, domain.DepartmentIT, "first", true, true)
	second := addDeptMember(t, users, domain.DepartmentIT, "second", false, true)

	promoted, err := svc.SetHead(ctx, "it", second)
	require.NoError(t, err)
	assert.True(t, promoted.IsDepartmentHead)

	heads := 0
	dept := domain.DepartmentIT
	members, err := users.List(ctx, repository.UserFilter{Department: &dept})
	require.NoError(t, err)
	for _, m := range members {
		if m.IsDepartmentHead {
			heads++
			assert.Equal(t, second, m.ID)
		}
	}
	assert.Equal(t, 1, heads)

	old, err := users.GetByID(ctx, first)
	require.NoError(t, err)
	assert.False(t, old.IsDepartmentHead)
}

func TestSetHeadRejectsOutsiders(t *testing.T) {
	svc, users, _ := newDepartmentFixture()
	ctx := context.Background()

	outsider := addDeptMember(t, users, domain.DepartmentWarden, "warden-person", false, true)

	_, err := svc.SetHead(ctx, "it", outsider)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, err = svc.SetHead(ctx, "it", 999)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.SetHead(ctx, "payroll", outsider)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestHeadFallsBackToLowestID(t *testing.T) {
	svc, users, _ := newDepartmentFixture()
	ctx := context.Background()

	lowest := addDeptMember(t, users, domain.DepartmentRector, "alpha", false, true)
	addDeptMember(t, users, domain.DepartmentRector, "beta", false, true)

	view, err := svc.Get(ctx, "RECTOR")
	require.NoError(t, err)
	require.NotNil(t, view.Head)
	assert.Equal(t, lowest, view.Head.ID)
	assert.Equal(t, 2, view.TotalMembers)
}

func TestHeadPrefersFlaggedMember(t *testing.T) {
	svc, users, _ := newDepartmentFixture()
	ctx := context.Background()

	addDeptMember(t, users, domain.DepartmentRector, "alpha", false, true)
	flagged := addDeptMember(t, users, domain.DepartmentRector, "beta", true, true)

	view, err := svc.Get(ctx, "rector")
	require.NoError(t, err)
	require.NotNil(t, view.Head)
	assert.Equal(t, flagged, view.Head.ID)
}

func TestRemoveMemberSoftDeletes(t *testing.T) {
	svc, users, _ := newDepartmentFixture()
	ctx := context.Background()

	id := addDeptMember(t, users, domain.DepartmentIT, "leaver", false, true)

	removed, err := svc.RemoveMember(ctx, "it", id)
	require.NoError(t, err)
	assert.False(t, removed.IsActive)

	// Record survives; only the active flag flips.
	stored, err := users.GetByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	view, err := svc.Get(ctx, "it")
	require.NoError(t, err)
	assert.Equal(t, 0, view.ActiveMembers)
}

func TestAddMemberEnrollsIntoDepartment(t *testing.T) {
	svc, _, _ := newDepartmentFixture()
	ctx := context.Background()

	user, err := svc.AddMember(ctx, "maintenance", SignupInput{
		FullName:        "Fixer",
		Email:           "fixer@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})
	require.NoError(t, err)
	require.NotNil(t, user.Department)
	assert.Equal(t, domain.DepartmentMaintenance, *user.Department)
	assert.Equal(t, "maintenance", user.Role)
	assert.True(t, user.IsActive)

	_, err = svc.AddMember(ctx, "maintenance", SignupInput{
		FullName:        "Fixer Two",
		Email:           "fixer@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, err = svc.AddMember(ctx, "maintenance", SignupInput{
		FullName:        "Mismatched",
		Email:           "other@example.com",
		Password:        "secret123",
		ConfirmPassword: "different",
	})
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestDepartmentStats(t *testing.T) {
	svc, users, queries := newDepartmentFixture()
	ctx := context.Background()

	head := addDeptMember(t, users, domain.DepartmentIT, "head", true, true)
	addDeptMember(t, users, domain.DepartmentIT, "member", false, true)
	addDeptMember(t, users, domain.DepartmentIT, "gone", false, false)

	require.NoError(t, queries.Create(ctx, &domain.Query{UserID: head, Category: domain.CategoryIT, Subject: "a", Description: "b", Priority: domain.PriorityLow, Status: domain.StatusPending}))
	require.NoError(t, queries.Create(ctx, &domain.Query{UserID: head, Category: domain.CategoryIT, Subject: "c", Description: "d", Priority: domain.PriorityLow, Status: domain.StatusResolved}))

	stats, err := svc.Stats(ctx, "it")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalMembers)
	assert.Equal(t, 2, stats.ActiveMembers)
	assert.Equal(t, 1, stats.InactiveMembers)
	assert.True(t, stats.HasHead)
	require.NotNil(t, stats.HeadName)
	assert.Equal(t, "head", *stats.HeadName)
	assert.Equal(t, int64(2), stats.TotalQueries)
	assert.Equal(t, int64(1), stats.PendingQueries)
	assert.Equal(t, int64(1), stats.ResolvedQueries)
}

func TestListCoversAllDepartments(t *testing.T) {
	svc, _, _ := newDepartmentFixture()

	views, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 5)
	assert.Equal(t, domain.DepartmentIT, views[0].Info.ID)
	assert.Equal(t, domain.DepartmentAdministration, views[4].Info.ID)
}
