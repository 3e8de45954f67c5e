package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the error type services return. Status and Code drive the error envelope.
type AppError struct {
	Status  int               `json:"-"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
	Err     error             `json:"-"`
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

func NewAppError(status int, code, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

func NewValidationError(message string, details map[string]string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Code: CodeValidation, Message: message, Details: details}
}

func NewBadRequestError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeBadRequest, message)
}

func NewUnauthorizedError(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message)
}

func NewForbiddenError(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message)
}

func NewNotFoundError(resource string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, resource+" not found")
}

func NewConflictError(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message)
}

func NewUnprocessableError(message string) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, CodeUnprocessable, message)
}

func NewTooManyRequestsError(message string) *AppError {
	return NewAppError(http.StatusTooManyRequests, CodeTooManyRequests, message)
}

// NewInternalError hides err from the client. It stays reachable through Unwrap for logging.
func NewInternalError(err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Code: CodeInternal, Message: ErrInternalServer, Err: err}
}

// AsAppError converts any error into an AppError, treating unknown errors as internal.
func AsAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(err)
}

func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Status == http.StatusNotFound
}
