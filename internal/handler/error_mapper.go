package handler

import (
	"errors"

	"github.com/forgo/wayfind/api/internal/model"
	"github.com/forgo/wayfind/api/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error messages across the API.
//
// Note the split on the login path: an unknown email maps to 401, a known
// email with the wrong password maps to 403. Ownership violations map to
// 401 while failed token checks (handled in middleware) map to 403.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	switch {
	// ===== Credential Errors =====
	case errors.Is(err, service.ErrInvalidCredentials):
		return model.NewUnauthorizedError(err.Error())
	case errors.Is(err, service.ErrWrongPassword):
		return model.NewForbiddenError(err.Error())

	// ===== Ownership Errors → 401 =====
	case errors.Is(err, service.ErrNotPlaceOwner):
		return model.NewNotOwnerError(err.Error())

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("user")
	case errors.Is(err, service.ErrPlaceNotFound):
		return model.NewNotFoundError("place")
	case errors.Is(err, service.ErrNoPlaces):
		return model.NewNotFoundError("places for user")
	case errors.Is(err, service.ErrNoUsers):
		return model.NewNotFoundError("users")

	// ===== Conflict Errors → 422 =====
	case errors.Is(err, service.ErrEmailAlreadyExists):
		return model.NewConflictError(err.Error())

	// ===== Validation Errors → 422 =====
	case errors.Is(err, service.ErrNameRequired):
		return model.NewValidationError([]model.FieldError{{Field: "name", Message: err.Error()}})
	case errors.Is(err, service.ErrInvalidEmail):
		return model.NewValidationError([]model.FieldError{{Field: "email", Message: err.Error()}})
	case errors.Is(err, service.ErrPasswordRequired),
		errors.Is(err, service.ErrPasswordTooShort):
		return model.NewValidationError([]model.FieldError{{Field: "password", Message: err.Error()}})

	// ===== Upstream Errors → 500 =====
	case errors.Is(err, service.ErrGeocodeFailed):
		return model.NewInternalError(err.Error())
	}

	return model.NewInternalError("")
}
