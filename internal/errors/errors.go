package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound is returned when an id does not match any row.
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned when a submitted form is incomplete or malformed.
	ErrValidation = errors.New("validation failed")
	// ErrTagNotResolved is returned when a tag name matches zero or several tags.
	ErrTagNotResolved = errors.New("tag name does not resolve to exactly one tag")
	// ErrTagExists is returned when a tag name is already taken.
	ErrTagExists = errors.New("tag already exists")
)

// ErrorResponse is the view model of the error page.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors, possibly wrapped, to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrTagNotResolved):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "TAG_NOT_RESOLVED")
	case errors.Is(err, ErrTagExists):
		return NewHTTPError(http.StatusConflict, err.Error(), "TAG_EXISTS")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
