// Package service contains the business logic for accounts and places.
//
// AuthService verifies credentials and issues bearer tokens. PlaceService
// enforces the ownership policy on mutations and keeps the place↔user
// relationship consistent through the repository's transactional writes.
// Services return sentinel errors from errors.go; handlers translate them
// to HTTP problem responses.
package service
