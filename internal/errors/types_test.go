package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "error without cause",
			err:      &AppError{Code: ErrCodeInvalidConfig, Message: "configuration is invalid"},
			expected: "INVALID_CONFIG: configuration is invalid",
		},
		{
			name: "error with cause",
			err: &AppError{
				Code:    ErrCodeBridgeCall,
				Message: "bridge call sendSeen failed",
				Cause:   errors.New("connection refused"),
			},
			expected: "BRIDGE_CALL: bridge call sendSeen failed: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(cause, ErrCodeInternalError, "something went wrong")

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
}

func TestAppError_WithContext(t *testing.T) {
	err := New(ErrCodeValidationFailed, "validation failed")

	result := err.WithContext("field", "sections").WithContext("value", "[]")

	assert.Same(t, err, result)
	assert.Len(t, err.Context, 2)
	assert.Equal(t, "sections", err.Context["field"])
}

func TestWrapRetryable(t *testing.T) {
	err := WrapRetryable(errors.New("503"), ErrCodeBridgeCall, "call failed")

	assert.True(t, err.Retryable)
	assert.True(t, IsRetryable(err))
	assert.False(t, IsRetryable(errors.New("plain")))
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorCode
	}{
		{"app error", New(ErrCodeNotFound, "missing"), ErrCodeNotFound},
		{"wrapped app error", fmt.Errorf("outer: %w", New(ErrCodeStore, "db")), ErrCodeStore},
		{"plain error", errors.New("boom"), ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetCode(tt.err))
		})
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("list: %w", NewValidationError("sections", "0", "[LT02] List without sections"))

	assert.True(t, HasCode(err, ErrCodeValidationFailed))
	assert.False(t, HasCode(err, ErrCodeCreateScheduledEvent))
	assert.False(t, HasCode(nil, ErrCodeInternalError))
}

func TestAs(t *testing.T) {
	original := New(ErrCodeTimeout, "slow")
	appErr, ok := As(fmt.Errorf("ctx: %w", original))

	require.True(t, ok)
	assert.Same(t, original, appErr)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

func TestGetUserMessage(t *testing.T) {
	assert.Equal(t, "friendly", GetUserMessage(New(ErrCodeStore, "x").WithUserMessage("friendly")))
	assert.Equal(t, "An internal error occurred", GetUserMessage(New(ErrCodeStore, "x")))
	assert.Equal(t, "An internal error occurred", GetUserMessage(errors.New("x")))
}
