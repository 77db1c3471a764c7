package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadtrack/query-portal/internal/auth"
	"github.com/acadtrack/query-portal/internal/config"
	"github.com/acadtrack/query-portal/internal/domain"
	apperrors "github.com/acadtrack/query-portal/pkg/errorutil"
)

func newTeamFixture() (*TeamService, *fakeUserRepo) {
	users := newFakeUserRepo()
	svc := NewTeamService(config.AuthConfig{BcryptCost: 4}, users)
	return svc, users
}

func TestTeamCreateDefaults(t *testing.T) {
	svc, _ := newTeamFixture()
	ctx := context.Background()

	member, err := svc.Create(ctx, TeamMemberInput{
		FullName: "Office Clerk",
		Email:    "clerk@example.com",
	})
	require.NoError(t, err)
	require.NotNil(t, member.Department)
	assert.Equal(t, domain.DepartmentAdministration, *member.Department)
	assert.Equal(t, "administration", member.Role)
	assert.NoError(t, auth.ComparePassword(member.PasswordHash, "defaultpassword123"))

	_, err = svc.Create(ctx, TeamMemberInput{FullName: "Dup", Email: "clerk@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email already registered")

	_, err = svc.Create(ctx, TeamMemberInput{FullName: "Bad Dept", Email: "x@example.com", Department: "catering"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestTeamListDefaultsToAdministration(t *testing.T) {
	svc, users := newTeamFixture()
	ctx := context.Background()

	admin := domain.DepartmentAdministration
	it := domain.DepartmentIT
	require.NoError(t, users.Create(ctx, &domain.User{FullName: "A", Email: "a@example.com", Department: &admin, IsActive: true}))
	require.NoError(t, users.Create(ctx, &domain.User{FullName: "B", Email: "b@example.com", Department: &it, IsActive: true}))

	members, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "a@example.com", members[0].Email)

	members, err = svc.List(ctx, "it")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "b@example.com", members[0].Email)
}

func TestTeamDeleteIsHard(t *testing.T) {
	svc, users := newTeamFixture()
	ctx := context.Background()

	member, err := svc.Create(ctx, TeamMemberInput{FullName: "Leaver", Email: "leaver@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, member.ID))
	_, err = users.GetByID(ctx, member.ID)
	assert.Error(t, err)

	err = svc.Delete(ctx, member.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestTeamUpdateEmailUniqueness(t *testing.T) {
	svc, _ := newTeamFixture()
	ctx := context.Background()

	first, err := svc.Create(ctx, TeamMemberInput{FullName: "First", Email: "first@example.com"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, TeamMemberInput{FullName: "Second", Email: "second@example.com"})
	require.NoError(t, err)

	taken := "first@example.com"
	_, err = svc.Update(ctx, second.ID, MemberUpdateInput{Email: &taken})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email already registered")

	// Re-submitting one's own email is not a conflict.
	own := "first@example.com"
	updated, err := svc.Update(ctx, first.ID, MemberUpdateInput{Email: &own})
	require.NoError(t, err)
	assert.Equal(t, "first@example.com", updated.Email)
}
