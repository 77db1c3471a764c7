package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadtrack/query-portal/internal/domain"
)

func TestPasswordHashRoundtrip(t *testing.T) {
	hash, err := HashPassword("secret123", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.NoError(t, ComparePassword(hash, "secret123"))
	assert.Error(t, ComparePassword(hash, "wrong"))

	// Two hashes of the same password differ (random salt).
	other, err := HashPassword("secret123", 4)
	require.NoError(t, err)
	assert.NotEqual(t, hash, other)
}

func TestTokenRoundtripUser(t *testing.T) {
	tm := NewTokenManager("unit-secret", 60)

	token, exp, err := tm.GenerateToken(42, domain.SubjectTypeUser, nil)
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.SubjectID)
	assert.Equal(t, domain.SubjectTypeUser, claims.Subject)
	assert.Nil(t, claims.Role)
}

func TestTokenRoundtripAdminRole(t *testing.T) {
	tm := NewTokenManager("unit-secret", 60)

	role := domain.AdminRoleDepartment
	token, _, err := tm.GenerateToken(7, domain.SubjectTypeAdmin, &role)
	require.NoError(t, err)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.SubjectID)
	assert.Equal(t, domain.SubjectTypeAdmin, claims.Subject)
	require.NotNil(t, claims.Role)
	assert.Equal(t, domain.AdminRoleDepartment, *claims.Role)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("unit-secret", 60)
	other := NewTokenManager("different-secret", 60)

	token, _, err := tm.GenerateToken(1, domain.SubjectTypeUser, nil)
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.Error(t, err)

	_, err = tm.ParseToken("not-a-token")
	assert.Error(t, err)
}
