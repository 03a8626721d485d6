package model

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorCode represents API error codes
type ErrorCode int

const (
	// Authentication errors (1xxx)
	ErrCodeAuthentication ErrorCode = 1001
	ErrCodeTokenExpired   ErrorCode = 1002
	ErrCodeTokenInvalid   ErrorCode = 1003

	// Authorization errors (2xxx)
	ErrCodeNotOwner ErrorCode = 2001

	// Resource errors (3xxx)
	ErrCodeNotFound ErrorCode = 3001
	ErrCodeConflict ErrorCode = 3002

	// Validation errors (4xxx)
	ErrCodeValidation   ErrorCode = 4001
	ErrCodeInvalidInput ErrorCode = 4002

	// Internal errors (5xxx)
	ErrCodeInternal ErrorCode = 5001
	ErrCodeStorage  ErrorCode = 5002
)

// ProblemDetails represents RFC 9457 Problem Details for HTTP APIs
type ProblemDetails struct {
	Type     string       `json:"type"`
	Title    string       `json:"title"`
	Status   int          `json:"status"`
	Detail   string       `json:"detail,omitempty"`
	Instance string       `json:"instance,omitempty"`
	Errors   []FieldError `json:"errors,omitempty"`
	Code     ErrorCode    `json:"code,omitempty"`
}

// FieldError represents a validation error on a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (p *ProblemDetails) Error() string {
	return fmt.Sprintf("[%d] %s: %s", p.Status, p.Title, p.Detail)
}

// WriteJSON writes the problem details as JSON response
func (p *ProblemDetails) WriteJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// Common error constructors.
//
// Status codes follow the API contract: a failed authentication (missing,
// malformed, or expired token) is 403, while a valid identity that does not
// own the target resource is 401.

// NewAuthenticationError reports a missing or invalid bearer token (403).
func NewAuthenticationError(detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:   "https://wayfind-api.forgo.software/errors/authentication",
		Title:  "Authentication Failed",
		Status: http.StatusForbidden,
		Detail: detail,
		Code:   ErrCodeAuthentication,
	}
}

// NewNotOwnerError reports a mutation attempted by a user who is not the
// resource's creator (401).
func NewNotOwnerError(detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:   "https://wayfind-api.forgo.software/errors/not-owner",
		Title:  "Not Resource Owner",
		Status: http.StatusUnauthorized,
		Detail: detail,
		Code:   ErrCodeNotOwner,
	}
}

// NewUnauthorizedError reports a failed credential check during login (401).
func NewUnauthorizedError(detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:   "https://wayfind-api.forgo.software/errors/unauthorized",
		Title:  "Unauthorized",
		Status: http.StatusUnauthorized,
		Detail: detail,
		Code:   ErrCodeAuthentication,
	}
}

// NewForbiddenError reports a rejected credential during login (403).
func NewForbiddenError(detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:   "https://wayfind-api.forgo.software/errors/forbidden",
		Title:  "Forbidden",
		Status: http.StatusForbidden,
		Detail: detail,
		Code:   ErrCodeAuthentication,
	}
}

func NewNotFoundError(resource string) *ProblemDetails {
	return &ProblemDetails{
		Type:   "https://wayfind-api.forgo.software/errors/not-found",
		Title:  "Not Found",
		Status: http.StatusNotFound,
		Detail: fmt.Sprintf("%s not found", resource),
		Code:   ErrCodeNotFound,
	}
}

func NewValidationError(errors []FieldError) *ProblemDetails {
	detail := "One or more fields failed validation"
	if len(errors) > 0 {
		detail = fmt.Sprintf("%s: %s", errors[0].Field, errors[0].Message)
		if len(errors) > 1 {
			detail = fmt.Sprintf("%s (and %d more errors)", detail, len(errors)-1)
		}
	}
	return &ProblemDetails{
		Type:   "https://wayfind-api.forgo.software/errors/validation",
		Title:  "Validation Error",
		Status: http.StatusUnprocessableEntity,
		Detail: detail,
		Code:   ErrCodeValidation,
		Errors: errors,
	}
}

// NewConflictError reports a duplicate unique field such as email. The API
// surfaces conflicts as 422, matching the validation family.
func NewConflictError(detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:   "https://wayfind-api.forgo.software/errors/conflict",
		Title:  "Conflict",
		Status: http.StatusUnprocessableEntity,
		Detail: detail,
		Code:   ErrCodeConflict,
	}
}

func NewInternalError(detail string) *ProblemDetails {
	if detail == "" {
		detail = "An unexpected error occurred"
	}
	return &ProblemDetails{
		Type:   "https://wayfind-api.forgo.software/errors/internal",
		Title:  "Internal Server Error",
		Status: http.StatusInternalServerError,
		Detail: detail,
		Code:   ErrCodeInternal,
	}
}

func NewBadRequestError(detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:   "https://wayfind-api.forgo.software/errors/bad-request",
		Title:  "Bad Request",
		Status: http.StatusBadRequest,
		Detail: detail,
		Code:   ErrCodeInvalidInput,
	}
}
