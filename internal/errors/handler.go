package errors

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

// APIError is the structured JSON error body returned by the HTTP layer.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates a new APIError with the given parameters.
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details.
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Predefined errors for common HTTP scenarios.
var (
	ErrInvalidRequest = New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	ErrNotFound       = New(http.StatusNotFound, "NOT_FOUND", "Resource not found")
	ErrInternal       = New(http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
)

// FromError maps a pipeline error to its API representation. EmptyResultError
// is deliberately absent: it is a warning, not a failure, and the handler
// renders it as a successful run with empty panels.
func FromError(err error) *APIError {
	var fileErr *FileReadError
	if errors.As(err, &fileErr) {
		return NewWithDetails(http.StatusBadRequest, "FILE_READ_ERROR", fileErr.Error(),
			map[string]interface{}{"encodings": fileErr.Encodings})
	}

	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) {
		return NewWithDetails(http.StatusUnprocessableEntity, "SCHEMA_ERROR", schemaErr.Error(),
			map[string]interface{}{
				"missing_columns":  schemaErr.Missing,
				"searched_aliases": schemaErr.Searched,
			})
	}

	var valErrs validator.ValidationErrors
	if errors.As(err, &valErrs) {
		return NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", err.Error(),
			map[string]interface{}{"fields": valErrs.Error()})
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	return ErrInternal
}
