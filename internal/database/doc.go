// Package database provides the SurrealDB abstraction layer for Wayfind.
//
// The Database interface exposes three query methods:
//   - Query: returns multiple results (SELECT queries returning lists)
//   - QueryOne: returns a single result (SELECT by id)
//   - Execute: no return value (CREATE/UPDATE/DELETE mutations)
//
// # Transactions
//
// Atomic multi-statement writes are BATCH-BASED: statements accumulate in a
// TxBuilder and are wrapped in BEGIN TRANSACTION / COMMIT TRANSACTION at
// execution time, so all of them commit or none do. This is the mechanism
// behind the place↔user consistency invariant: creating a place and
// appending its id to the owner's place set travel in one batch:
//
//	tb := database.NewTxBuilder()
//	tb.Add("CREATE type::record($pid) CONTENT { ... }", placeVars)
//	tb.Add("UPDATE type::record($uid) SET places += $pid", ownerVars)
//	_, err := database.ExecuteTransaction(ctx, db, tb)
//
// There is no isolation between Add calls; conflict detection between
// concurrent batches is the storage engine's responsibility.
//
// # Errors
//
// Standard errors cover the common failure cases (ErrNotFound, ErrDuplicate,
// ErrConnection, ErrQuery); check them with errors.Is.
package database
