// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow handlers to distinguish between
// failure scenarios: ErrNotFound maps to 404, ErrConflict to 409 (e.g.
// redeeming an already-used ticket), ErrEmailExists to the duplicate-email
// rejection at registration.
package repository

import "errors"

// ErrNotFound is returned when a referenced row does not exist, or exists but
// is not visible to the requesting user (ownership checks).
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an update cannot be performed because of
// conflicting state, such as redeeming a ticket that is already used.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned when an insert or update would duplicate a
// registered email address.
var ErrEmailExists = errors.New("email already exists")
