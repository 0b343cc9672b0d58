// Package apierrors provides structured API error handling.
package apierrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/cmmsmind/backend/internal/correlation"
	"github.com/cmmsmind/backend/internal/repository"
)

// Error codes carried in the response body.
const (
	CodeBadRequest         = "BAD_REQUEST"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeValidation         = "VALIDATION_ERROR"
	CodeInternal           = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeRateLimited        = "RATE_LIMIT_EXCEEDED"
)

// APIError represents a structured API error.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Details    any    `json:"details,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

func newError(status int, code, message string, details any) *APIError {
	return &APIError{Code: code, Message: message, StatusCode: status, Details: details}
}

// Write sends the error as JSON, tagged with the request's correlation ID.
func (e *APIError) Write(w http.ResponseWriter, r *http.Request) {
	e.RequestID = correlation.GetID(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	json.NewEncoder(w).Encode(e) //nolint:errcheck
}

func NewBadRequestError(message string) *APIError {
	return newError(http.StatusBadRequest, CodeBadRequest, message, nil)
}

func NewNotFoundError(resource, id string) *APIError {
	return newError(http.StatusNotFound, CodeNotFound, resource+" not found",
		map[string]string{"resource": resource, "id": id})
}

func NewConflictError(message string) *APIError {
	return newError(http.StatusConflict, CodeConflict, message, nil)
}

// NewValidationError carries per-field messages in Details.
func NewValidationError(message string, details any) *APIError {
	return newError(http.StatusUnprocessableEntity, CodeValidation, message, details)
}

func NewInternalError(message string) *APIError {
	return newError(http.StatusInternalServerError, CodeInternal, message, nil)
}

func NewServiceUnavailableError(service string) *APIError {
	return newError(http.StatusServiceUnavailable, CodeServiceUnavailable, service+" is temporarily unavailable", nil)
}

func NewRateLimitError() *APIError {
	return newError(http.StatusTooManyRequests, CodeRateLimited, "Rate limit exceeded, please try again later", nil)
}

// FromError converts err to an APIError. Repository sentinels become 404 and
// 409; anything unrecognised is reported as an internal error.
func FromError(err error, resource, id string) *APIError {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, repository.ErrNotFound):
		return NewNotFoundError(resource, id)
	case errors.Is(err, repository.ErrAlreadyExists):
		return NewConflictError(fmt.Sprintf("%s %s already exists", resource, id))
	default:
		return NewInternalError("An unexpected error occurred")
	}
}
