package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWrongPassword      = errors.New("wrong password")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrNoUsers            = errors.New("no users found")
	ErrNameRequired       = errors.New("name is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrInvalidEmail       = errors.New("invalid email format")
)

// ===== Place Errors =====
var (
	ErrPlaceNotFound = errors.New("place not found")
	ErrNoPlaces      = errors.New("no places found for user")
	ErrNotPlaceOwner = errors.New("not the owner of this place")
)

// ===== Geocoding Errors =====
var (
	ErrGeocodeFailed = errors.New("could not resolve address to coordinates")
)
