package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadtrack/query-portal/internal/config"
	"github.com/acadtrack/query-portal/internal/domain"
	apperrors "github.com/acadtrack/query-portal/pkg/errorutil"
)

func newAuthFixture() (*AuthService, *fakeUserRepo) {
	users := newFakeUserRepo()
	svc := NewAuthService(config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		BcryptCost:            4,
	}, users)
	return svc, users
}

func TestSignupDefaults(t *testing.T) {
	svc, _ := newAuthFixture()

	user, token, exp, err := svc.Signup(context.Background(), SignupInput{
		FullName:        "Student One",
		Email:           "one@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "student", user.Role)
	assert.Nil(t, user.Department)
	assert.True(t, user.IsActive)
	assert.Equal(t, "Active", user.Status)
	assert.NotEmpty(t, token)
	assert.False(t, exp.IsZero())
	assert.NotEqual(t, "secret123", user.PasswordHash)
}

func TestSignupValidationOrder(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	_, _, _, err := svc.Signup(ctx, SignupInput{
		FullName:        "Mismatch",
		Email:           "mismatch@example.com",
		Password:        "one",
		ConfirmPassword: "two",
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
	assert.Contains(t, err.Error(), "passwords do not match")

	_, _, _, err = svc.Signup(ctx, SignupInput{
		FullName:        "First",
		Email:           "dup@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})
	require.NoError(t, err)

	_, _, _, err = svc.Signup(ctx, SignupInput{
		FullName:        "Second",
		Email:           "dup@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email already registered")

	// Password mismatch wins over duplicate email: nothing is persisted and
	// the mismatch is reported first.
	_, _, _, err = svc.Signup(ctx, SignupInput{
		FullName:        "Third",
		Email:           "dup@example.com",
		Password:        "one",
		ConfirmPassword: "two",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "passwords do not match")
}

func TestSignupDepartmentRole(t *testing.T) {
	svc, _ := newAuthFixture()

	user, _, _, err := svc.Signup(context.Background(), SignupInput{
		FullName:        "IT Staff",
		Email:           "staff@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		Role:            "it",
	})
	require.NoError(t, err)
	require.NotNil(t, user.Department)
	assert.Equal(t, domain.DepartmentIT, *user.Department)
}

func TestLogin(t *testing.T) {
	svc, users := newAuthFixture()
	ctx := context.Background()

	created, _, _, err := svc.Signup(ctx, SignupInput{
		FullName:        "Login User",
		Email:           "login@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})
	require.NoError(t, err)

	user, token, _, err := svc.Login(ctx, "login@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.NotEmpty(t, token)

	_, _, _, err = svc.Login(ctx, "login@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)

	_, _, _, err = svc.Login(ctx, "nobody@example.com", "secret123")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)

	created.IsActive = false
	require.NoError(t, users.Update(ctx, created))
	_, _, _, err = svc.Login(ctx, "login@example.com", "secret123")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	user, _, _, err := svc.Signup(ctx, SignupInput{
		FullName:        "Changer",
		Email:           "change@example.com",
		Password:        "oldpass1",
		ConfirmPassword: "oldpass1",
	})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, user.ID, "wrongpass", "newpass1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "current password is incorrect")

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "oldpass1", "newpass1"))

	_, _, _, err = svc.Login(ctx, "change@example.com", "newpass1")
	assert.NoError(t, err)
	_, _, _, err = svc.Login(ctx, "change@example.com", "oldpass1")
	assert.Error(t, err)
}

func TestGetUserMiss(t *testing.T) {
	svc, _ := newAuthFixture()
	_, err := svc.GetUser(context.Background(), 42)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.GetUserByEmail(context.Background(), "ghost@example.com")
	assert.True(t, apperrors.IsNotFound(err))
}
