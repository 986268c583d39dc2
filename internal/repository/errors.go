// Package repository defines the data access layer plus the sentinel error
// values shared across repositories. Sentinels let handlers translate
// failures into HTTP status codes without string matching: ErrNotFound maps
// to 404, ErrDuplicate to 409.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a unique constraint,
// such as reusing an admin username or email.
var ErrDuplicate = errors.New("duplicate entry")
