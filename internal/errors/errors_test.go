package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	t.Run("Error returns formatted string", func(t *testing.T) {
		err := New(ErrCodeNotFound, "Property not found")
		assert.Equal(t, "NOT_FOUND: Property not found", err.Error())
	})

	t.Run("Error with cause includes cause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := Wrap(ErrCodeDatabase, "Database error", cause)
		assert.Contains(t, err.Error(), "DATABASE_ERROR")
		assert.Contains(t, err.Error(), "Database error")
		assert.Contains(t, err.Error(), "database connection failed")
	})

	t.Run("WithCause adds cause to error", func(t *testing.T) {
		cause := errors.New("original error")
		err := New(ErrCodeInternal, "Something went wrong").WithCause(cause)
		assert.Equal(t, cause, err.Unwrap())
	})

	t.Run("WithDetails adds details to error", func(t *testing.T) {
		details := map[string]string{"field": "email", "reason": "invalid format"}
		err := New(ErrCodeValidation, "Validation failed").WithDetails(details)
		assert.Equal(t, details, err.Details)
	})
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name         string
		constructor  func() *AppError
		expectedCode ErrorCode
	}{
		{"Unauthorized", func() *AppError { return Unauthorized("test") }, ErrCodeUnauthorized},
		{"Forbidden", func() *AppError { return Forbidden("test") }, ErrCodeForbidden},
		{"NotFound", func() *AppError { return NotFound("Property") }, ErrCodeNotFound},
		{"AlreadyExists", func() *AppError { return AlreadyExists("Account") }, ErrCodeAlreadyExists},
		{"ValidationError", func() *AppError { return ValidationError("test") }, ErrCodeValidation},
		{"InvalidInput", func() *AppError { return InvalidInput("email", "invalid") }, ErrCodeInvalidInput},
		{"MissingRequired", func() *AppError { return MissingRequired("email") }, ErrCodeMissingRequired},
		{"InvalidAccessCode", func() *AppError { return InvalidAccessCode() }, ErrCodeInvalidAccessCode},
		{"AccessRevoked", func() *AppError { return AccessRevoked() }, ErrCodeAccessRevoked},
		{"AccessNotYetAvailable", func() *AppError { return AccessNotYetAvailable(3) }, ErrCodeAccessNotYet},
		{"AccessExpired", func() *AppError { return AccessExpired() }, ErrCodeAccessExpired},
		{"RateLimitExceeded", func() *AppError { return RateLimitExceeded() }, ErrCodeRateLimitExceeded},
		{"Internal", func() *AppError { return Internal("test") }, ErrCodeInternal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.constructor()
			assert.Equal(t, tc.expectedCode, err.Code)
			assert.NotEmpty(t, err.Message)
		})
	}
}

func TestAccessNotYetAvailable_Pluralization(t *testing.T) {
	assert.Contains(t, AccessNotYetAvailable(1).Message, "1 day.")
	assert.Contains(t, AccessNotYetAvailable(2).Message, "2 days.")
}

func TestDatabase(t *testing.T) {
	cause := errors.New("connection refused")
	err := Database(cause)
	assert.Equal(t, ErrCodeDatabase, err.Code)
	assert.Equal(t, cause, err.Unwrap())
}

func TestExternal(t *testing.T) {
	cause := errors.New("timeout")
	err := External("email", cause)
	assert.Equal(t, ErrCodeExternal, err.Code)
	assert.Contains(t, err.Message, "email")
	assert.Equal(t, cause, err.Unwrap())
}

func TestAsAppError(t *testing.T) {
	t.Run("direct AppError", func(t *testing.T) {
		appErr, ok := AsAppError(NotFound("Invite"))
		assert.True(t, ok)
		assert.Equal(t, ErrCodeNotFound, appErr.Code)
	})

	t.Run("wrapped AppError", func(t *testing.T) {
		wrapped := fmt.Errorf("handler: %w", NotFound("Invite"))
		appErr, ok := AsAppError(wrapped)
		assert.True(t, ok)
		assert.Equal(t, ErrCodeNotFound, appErr.Code)
	})

	t.Run("plain error", func(t *testing.T) {
		_, ok := AsAppError(errors.New("boom"))
		assert.False(t, ok)
	})
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrCodeRateLimitExceeded, GetCode(RateLimitExceeded()))
	assert.Equal(t, ErrCodeInternal, GetCode(errors.New("boom")))
}
