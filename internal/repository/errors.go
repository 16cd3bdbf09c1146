// Package repository defines error sentinels shared across the
// individual repositories. Handlers translate them into HTTP
// responses: ErrNotFound -> 404, ErrConflict -> 409, ErrForbidden
// -> 403.
package repository

import "errors"

// ErrNotFound is returned when a lookup by id or ticket code
// matches no row.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an operation cannot proceed because
// of existing state, such as registering twice for the same event
// or re-scanning an already checked-in ticket.
var ErrConflict = errors.New("conflict")

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own.
var ErrForbidden = errors.New("forbidden")

// ErrUserExists is returned when a registration would duplicate an
// existing email or username.
var ErrUserExists = errors.New("email or username already exists")
