package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassthrough(t *testing.T) {
	orig := NewValidationError("bad input", map[string]any{"field": "email"})
	mapped := ToDomainError(orig)
	require.NotNil(t, mapped)
	assert.Equal(t, "VALIDATION_FAILED", mapped.Code)
	assert.Equal(t, http.StatusBadRequest, mapped.HTTPStatus)
	assert.Equal(t, "email", mapped.Details["field"])
}

func TestToDomainErrorWrapsRowMiss(t *testing.T) {
	mapped := ToDomainError(fmt.Errorf("lookup: %w", pgx.ErrNoRows))
	require.NotNil(t, mapped)
	assert.Equal(t, "NOT_FOUND", mapped.Code)
	assert.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
}

func TestToDomainErrorUnknown(t *testing.T) {
	mapped := ToDomainError(errors.New("boom"))
	require.NotNil(t, mapped)
	assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
	assert.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)

	assert.Nil(t, ToDomainError(nil))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFound("query", nil)))
	assert.True(t, IsNotFound(pgx.ErrNoRows))
	assert.False(t, IsNotFound(NewValidationError("x", nil)))
	assert.False(t, IsNotFound(errors.New("other")))
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInternalError(cause)
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "internal server error")
}
