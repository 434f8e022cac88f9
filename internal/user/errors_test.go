package user

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodeString(t *testing.T) {
	assert.Equal(t, "validation_error", ErrCodeValidation.String())
	assert.Equal(t, "not_found", ErrCodeNotFound.String())
	assert.Equal(t, "store_unavailable", ErrCodeStoreUnavailable.String())
	assert.Equal(t, "broker_unavailable", ErrCodeBrokerUnavailable.String())
	assert.Equal(t, "unknown", ErrCodeUnknown.String())
}

func TestErrorMessage(t *testing.T) {
	err := NewError(ErrCodeValidation, "name must not be empty")
	assert.Equal(t, "validation_error: name must not be empty", err.Error())

	wrapped := WrapError(ErrStoreDown, "insert failed", errors.New("connection refused"))
	assert.Equal(t, "store_unavailable: insert failed: connection refused", wrapped.Error())
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapError(ErrStoreDown, "insert failed", cause)
	assert.ErrorIs(t, err, cause)
}

func TestErrorIsMatchesByCode(t *testing.T) {
	err := WrapError(ErrNotFound, "user 42 missing", nil)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrStoreDown)
}

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeStoreUnavailable, http.StatusServiceUnavailable},
		{ErrCodeBrokerUnavailable, http.StatusServiceUnavailable},
		{ErrCodeUnknown, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, NewError(tt.code, "msg").ToHTTPStatus())
		})
	}
}

func TestErrorPredicates(t *testing.T) {
	assert.True(t, IsNotFound(ErrNotFound))
	assert.True(t, IsNotFound(fmt.Errorf("lookup: %w", ErrNotFound)))
	assert.False(t, IsNotFound(errors.New("plain")))
	assert.False(t, IsNotFound(nil))

	assert.True(t, IsValidation(NewError(ErrCodeValidation, "bad")))
	assert.False(t, IsValidation(ErrNotFound))

	assert.True(t, IsStoreUnavailable(WrapError(ErrStoreDown, "query", errors.New("down"))))
	assert.False(t, IsStoreUnavailable(ErrNotFound))
}
