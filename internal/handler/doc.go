// Package handler contains the HTTP endpoints for users and places.
//
// Handlers decode and validate request bodies, delegate to the service
// layer, and translate service errors to RFC 9457 problem responses through
// MapServiceError. Mutating place routes expect the auth middleware to have
// placed the caller's identity in the request context.
package handler
