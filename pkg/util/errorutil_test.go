package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsCarryCodeAndStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{name: "invalid credentials", err: NewInvalidCredentials(), code: CodeInvalidCredentials, status: http.StatusUnauthorized},
		{name: "role mismatch", err: NewRoleMismatch(), code: CodeRoleMismatch, status: http.StatusForbidden},
		{name: "account blocked", err: NewAccountBlocked(), code: CodeAccountBlocked, status: http.StatusForbidden},
		{name: "account disabled", err: NewAccountDisabled(), code: CodeAccountDisabled, status: http.StatusForbidden},
		{name: "token invalid", err: NewTokenInvalid(), code: CodeTokenInvalid, status: http.StatusUnauthorized},
		{name: "token expired", err: NewTokenExpired(), code: CodeTokenExpired, status: http.StatusUnauthorized},
		{name: "forbidden", err: NewForbidden("nope"), code: CodeForbidden, status: http.StatusForbidden},
		{name: "duplicate email", err: NewDuplicateEmail(), code: CodeDuplicateEmail, status: http.StatusConflict},
		{name: "already resolved", err: NewAlreadyResolved(), code: CodeAlreadyResolved, status: http.StatusConflict},
		{name: "validation", err: NewValidationError("bad", nil), code: CodeValidationFailed, status: http.StatusBadRequest},
		{name: "not found", err: NewNotFound("ticket", nil), code: CodeNotFound, status: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var domainErr *DomainError
			require.ErrorAs(t, tt.err, &domainErr)
			assert.Equal(t, tt.code, domainErr.Code)
			assert.Equal(t, tt.status, domainErr.HTTPStatus)
			assert.NotEmpty(t, domainErr.Message)
		})
	}
}

func TestToDomainError(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))

	// Existing domain errors pass through unchanged.
	original := NewForbidden("stop")
	converted := ToDomainError(original)
	assert.Equal(t, CodeForbidden, converted.Code)

	// Wrapped domain errors are still recognized.
	wrapped := fmt.Errorf("handler: %w", original)
	assert.Equal(t, CodeForbidden, ToDomainError(wrapped).Code)

	// Missing rows map to not found.
	assert.Equal(t, CodeNotFound, ToDomainError(pgx.ErrNoRows).Code)

	// Everything else becomes an internal error with the cause retained.
	cause := errors.New("connection reset")
	internal := ToDomainError(cause)
	assert.Equal(t, CodeInternal, internal.Code)
	assert.ErrorIs(t, internal, cause)
}

func TestIsCode(t *testing.T) {
	assert.True(t, IsCode(NewDuplicateEmail(), CodeDuplicateEmail))
	assert.False(t, IsCode(NewDuplicateEmail(), CodeNotFound))
	assert.False(t, IsCode(errors.New("plain"), CodeInternal))
	assert.True(t, IsCode(fmt.Errorf("wrap: %w", NewAlreadyResolved()), CodeAlreadyResolved))
}
