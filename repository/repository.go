// Package repository wraps the database with entity-specific CRUD and the
// invariant checks the enrollment flow depends on. Each repo exclusively owns
// its table; services never touch another entity's rows directly.
package repository

import (
	"errors"
)

var (
	// ErrNotFound is returned when a looked-up record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a create violates a uniqueness
	// precondition (duplicate email, duplicate enrollment).
	ErrDuplicate = errors.New("duplicate record")

	// ErrNoSpotsLeft is returned by ReserveSpot when the tournament exists
	// but has no open spots.
	ErrNoSpotsLeft = errors.New("no spots left")

	// ErrWalletShort is returned by DebitWallet when the debit would drive a
	// wallet component negative.
	ErrWalletShort = errors.New("wallet balance too low")
)
