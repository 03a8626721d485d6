// Package model defines the domain types shared across the Wayfind API:
// users, places, and the RFC 9457 Problem Details error surface.
//
// The core invariant lives between User and Place: a Place's creator field
// names exactly one User, and that User's places set contains the Place's
// id. The repository layer is the only writer allowed to touch both sides,
// and it does so inside a single database transaction.
package model
