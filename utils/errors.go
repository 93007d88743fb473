package utils

import (
	"net/http"
)

// Error codes
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeAuthRequired       = "AUTH_REQUIRED"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeRateLimited        = "RATE_LIMITED"
	CodeInternal           = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// AppError is a domain error that already knows how it is shown to clients.
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(status int, code, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

// WithDetails returns a copy of e carrying details, leaving sentinels untouched.
func (e *AppError) WithDetails(details any) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func ValidationError(fields ...FieldError) *AppError {
	return NewAppError(http.StatusBadRequest, CodeValidation, "Validation error").WithDetails(fields)
}

var (
	ErrAuthRequired = NewAppError(http.StatusUnauthorized, CodeAuthRequired, "Authentication required")
	ErrTokenExpired = NewAppError(http.StatusUnauthorized, CodeTokenExpired, "Token expired")
	ErrInvalidToken = NewAppError(http.StatusUnauthorized, CodeInvalidToken, "Invalid token")
	ErrRateLimited  = NewAppError(http.StatusTooManyRequests, CodeRateLimited, "Too many requests, please try again later")
	ErrInternal     = NewAppError(http.StatusInternalServerError, CodeInternal, "Internal server error")
	ErrNotFound     = NewAppError(http.StatusNotFound, CodeNotFound, "Resource not found")
)
