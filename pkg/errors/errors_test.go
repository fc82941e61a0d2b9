package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_WithStatusKeepsIdentity(t *testing.T) {
	notFound := ErrUserNotFound.WithStatus(http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, notFound.Status)
	assert.Equal(t, http.StatusNotFound, ErrUserNotFound.Status, "package-level value must not change")
	assert.True(t, errors.Is(notFound, ErrUserNotFound))
	assert.False(t, errors.Is(notFound, ErrInvalidCredentials))
}

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("email: is required")
	err := NewAppError(CodeValidation, "Invalid input", cause)

	assert.Equal(t, "Invalid input: email: is required", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, "User already exists", ErrUserAlreadyExists.Error())
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrUserAlreadyExists, http.StatusBadRequest},
		{ErrUserNotFound, http.StatusNotFound},
		{ErrInvalidOTP, http.StatusBadRequest},
		{ErrOTPExpired, http.StatusBadRequest},
		{ErrInvalidToken, http.StatusUnauthorized},
		{fmt.Errorf("wrapped: %w", ErrInvalidCredentials), http.StatusBadRequest},
		{NewAppError(CodeInternal, "boom", nil), http.StatusInternalServerError},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), tt.err.Error())
	}
}
