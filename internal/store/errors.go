package store

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound: no row matched within the repository's scope.
	ErrNotFound = errors.New("store: not found")

	// ErrImmutableField: a write attempted to change created_at or
	// created_by past creation. Indicates a bug in the calling code.
	ErrImmutableField = errors.New("store: immutable audit field modified")

	// ErrDefaultConflict: the write would give a user a second default
	// membership.
	ErrDefaultConflict = errors.New("store: user already has a default membership")

	// ErrEmailExists: an active user already holds the email
	// (case-insensitive).
	ErrEmailExists = errors.New("store: email already registered")

	// ErrDuplicate: an active-scope uniqueness constraint was violated.
	ErrDuplicate = errors.New("store: duplicate record")
)

// mapConstraintError converts sqlite unique-constraint failures into the
// typed errors above. The partial indexes are scoped to active rows, so
// soft-deleted records never collide.
func mapConstraintError(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()

	switch {
	case strings.Contains(msg, "memberships_one_default"):
		return ErrDefaultConflict
	case strings.Contains(msg, "users_active_email"):
		return ErrEmailExists
	case strings.Contains(msg, "UNIQUE constraint failed"),
		strings.Contains(msg, "constraint failed"):
		return ErrDuplicate
	default:
		return err
	}
}
