package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		errType ErrorType
		status  int
	}{
		{DatabaseError, http.StatusInternalServerError},
		{ConfigError, http.StatusInternalServerError},
		{AuthError, http.StatusUnauthorized},
		{UnauthorizedError, http.StatusForbidden},
		{NotFoundError, http.StatusNotFound},
		{ValidationError, http.StatusBadRequest},
		{BadRequestError, http.StatusBadRequest},
		{InternalError, http.StatusInternalServerError},
		{MigrationError, http.StatusInternalServerError},
		{ConflictError, http.StatusConflict},
		{UnknownError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		err := NewAppError(tt.errType, "boom", nil)
		assert.Equal(t, tt.status, err.StatusCode())
	}
}

func TestErrorWrapping(t *testing.T) {
	underlying := errors.New("connection refused")
	err := NewDatabaseError("failed to query user", underlying)

	assert.Equal(t, "failed to query user: connection refused", err.Error())
	assert.ErrorIs(t, err, underlying)

	wrapped := fmt.Errorf("outer: %w", err)
	appErr, ok := FromError(wrapped)
	require.True(t, ok)
	assert.Equal(t, DatabaseError, appErr.Type)
}

func TestValidationErrorDetails(t *testing.T) {
	err := NewValidationError("unable to register new user", []string{
		"First name is required",
		"Passwords do not match",
	})

	assert.True(t, IsValidationError(err))

	resp := err.ToResponse()
	assert.Equal(t, "unable to register new user", resp.Error)
	assert.Len(t, resp.Details, 2)
}

func TestToResponse_HidesUnderlyingError(t *testing.T) {
	err := NewInternalError("something went wrong", errors.New("secret internals"))
	resp := err.ToResponse()
	assert.Equal(t, "something went wrong", resp.Error)
	assert.NotContains(t, resp.Error, "secret internals")
}

func TestTypeHelpers(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFoundError("gone", nil)))
	assert.False(t, IsNotFound(NewAuthError("no", nil)))
	assert.True(t, IsAuthError(NewAuthError("no", nil)))
	assert.True(t, IsConflictError(NewConflictError("dup", nil)))
	assert.False(t, IsValidationError(errors.New("plain")))
}

func TestFromError_NilAndPlain(t *testing.T) {
	_, ok := FromError(nil)
	assert.False(t, ok)

	_, ok = FromError(errors.New("plain"))
	assert.False(t, ok)
}
