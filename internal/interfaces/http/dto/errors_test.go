package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected int
	}{
		{"not found", ErrCodeNotFound, http.StatusNotFound},
		{"already exists", ErrCodeAlreadyExists, http.StatusConflict},
		{"concurrency conflict", ErrCodeConcurrencyConflict, http.StatusConflict},
		{"invalid state", ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{"business rule", ErrCodeBusinessRule, http.StatusUnprocessableEntity},
		{"account in use", ErrCodeAccountInUse, http.StatusUnprocessableEntity},
		{"validation", ErrCodeValidation, http.StatusBadRequest},
		{"unauthorized", ErrCodeUnauthorized, http.StatusUnauthorized},
		{"internal", ErrCodeInternal, http.StatusInternalServerError},
		{"unknown code falls back to 500", "ERR_SOMETHING_NEW", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected string
	}{
		{"not found", "NOT_FOUND", ErrCodeNotFound},
		{"duplicate code", "DUPLICATE_CODE", ErrCodeAlreadyExists},
		{"type mismatch", "TYPE_MISMATCH", ErrCodeBusinessRule},
		{"cyclic hierarchy", "CYCLIC_HIERARCHY", ErrCodeBusinessRule},
		{"has activity", "HAS_ACTIVITY", ErrCodeAccountInUse},
		{"validation failed", "VALIDATION_FAILED", ErrCodeBusinessRule},
		{"invalid transition", "INVALID_TRANSITION", ErrCodeInvalidState},
		{"concurrency conflict", "CONCURRENCY_CONFLICT", ErrCodeConcurrencyConflict},
		{"invalid input", "INVALID_INPUT", ErrCodeInvalidInput},
		{"already normalized", ErrCodeNotFound, ErrCodeNotFound},
		{"unknown passes through", "SOMETHING_ELSE", "SOMETHING_ELSE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.code))
		})
	}
}

func TestNormalizeAndGetStatus(t *testing.T) {
	// Domain codes resolve to a meaningful status after normalization
	code := NormalizeErrorCode("DUPLICATE_CODE")
	assert.Equal(t, http.StatusConflict, GetHTTPStatus(code))

	code = NormalizeErrorCode("HAS_ACTIVITY")
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(code))
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Account not found", "req-123")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Account not found", resp.Error.Message)
	assert.Equal(t, "req-123", resp.Error.RequestID)
	assert.Nil(t, resp.Data)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "code", Message: "code is required"},
		{Field: "lines", Message: "at least two lines are required"},
	}

	resp := NewValidationErrorResponse("Request validation failed", "req-456", details)

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-456", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "code", resp.Error.Details[0].Field)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a", "b"}, 45, 2, 20)

	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 20, resp.Meta.PageSize)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
