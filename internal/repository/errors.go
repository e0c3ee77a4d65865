// Package repository holds the storage sentinel errors shared across
// the domain packages. Repository interfaces are declared in the domain
// package that consumes them; this package stays below the domain layer.
package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrForeignKeyViolation is returned when a foreign key constraint fails
	ErrForeignKeyViolation = errors.New("foreign key violation")

	// ErrUnavailable is returned when the store cannot be reached
	ErrUnavailable = errors.New("store unavailable")
)
