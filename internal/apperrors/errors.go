package apperrors

import (
	"errors"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates that the caller is not authenticated.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates that the caller may not act on the resource.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates that the request conflicts with the current state of the resource.
var ErrConflict = errors.New("conflict with current state")

// ErrUnavailable indicates that a remote collaborator could not be reached or answered badly.
var ErrUnavailable = errors.New("remote service unavailable")

// AppError carries an HTTP-ish status code along with the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the sentinel implied by the status code.
func (e *AppError) Is(target error) bool {
	switch e.Code {
	case http.StatusNotFound:
		return target == ErrNotFound
	case http.StatusBadRequest:
		return target == ErrValidation
	case http.StatusConflict:
		return target == ErrConflict
	case http.StatusUnauthorized:
		return target == ErrUnauthorized
	case http.StatusForbidden:
		return target == ErrForbidden
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return target == ErrUnavailable
	}
	return false
}

// NewAppError builds an AppError with the given status code.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError builds a 404 AppError.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message}
}

// NewValidationError builds a 400 AppError.
func NewValidationError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message}
}

// NewConflictError builds a 409 AppError.
func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message}
}

// NewUnavailableError builds a 502 AppError wrapping a remote failure.
func NewUnavailableError(message string, err error) *AppError {
	return &AppError{Code: http.StatusBadGateway, Message: message, Err: err}
}

// StatusCode maps an error onto the HTTP status a handler should answer with.
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
