// Package repository implements data access for users and places on top of
// the database abstraction.
//
// Reads are plain queries. The writes that touch both sides of the
// place↔user relationship (PlaceRepository.CreateWithOwner and
// DeleteWithOwner) go through a single transaction batch so the place record
// and the owner's place list can never diverge.
package repository
