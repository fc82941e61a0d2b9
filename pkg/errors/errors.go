package errors

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeUserExists         = "USER_EXISTS"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInvalidOTP         = "INVALID_OTP"
	CodeOTPExpired         = "OTP_EXPIRED"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeInternal           = "INTERNAL_ERROR"
)

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// Client-facing failures. Messages are returned to callers verbatim.
var (
	ErrUserAlreadyExists  = &AppError{Code: CodeUserExists, Message: "User already exists", Status: http.StatusBadRequest}
	ErrUserNotFound       = &AppError{Code: CodeUserNotFound, Message: "User not found", Status: http.StatusNotFound}
	ErrInvalidCredentials = &AppError{Code: CodeInvalidCredentials, Message: "Invalid credentials", Status: http.StatusBadRequest}
	ErrInvalidOTP         = &AppError{Code: CodeInvalidOTP, Message: "Invalid OTP. Please use valid OTP.", Status: http.StatusBadRequest}
	ErrOTPExpired         = &AppError{Code: CodeOTPExpired, Message: "Your OTP has expired.", Status: http.StatusBadRequest}
	ErrInvalidToken       = &AppError{Code: CodeInvalidToken, Message: "Invalid or expired token", Status: http.StatusUnauthorized}
)

type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError with the same code, so copies made by WithStatus
// still satisfy errors.Is against the package-level values.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithStatus returns a copy of e answered with a different HTTP status.
func (e *AppError) WithStatus(status int) *AppError {
	cp := *e
	cp.Status = status
	return &cp
}

func NewAppError(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  statusForCode(code),
		Err:     err,
	}
}

// HTTPStatus maps err to the status it is answered with.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

func statusForCode(code string) int {
	switch code {
	case CodeUserNotFound:
		return http.StatusNotFound
	case CodeInvalidToken:
		return http.StatusUnauthorized
	case CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
