package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrPrincipalAlreadySet is returned when WithPrincipal is called on a
// context chain that already carries a principal. It indicates a bug in the
// calling code, not a user-facing condition.
var ErrPrincipalAlreadySet = errors.New("authz: principal already set in context")

// PrincipalType defines authorization principal types.
type PrincipalType int

const (
	// PrincipalTypeUnknown unknown principal type.
	PrincipalTypeUnknown PrincipalType = iota
	// PrincipalTypeSystem system principal (background jobs, internal operations).
	PrincipalTypeSystem
	// PrincipalTypeUser user principal.
	PrincipalTypeUser
)

// String returns string representation of PrincipalType.
func (p PrincipalType) String() string {
	switch p {
	case PrincipalTypeSystem:
		return "system"
	case PrincipalTypeUser:
		return "user"
	default:
		return "unknown"
	}
}

// Principal represents the acting identity for one logical operation.
// Each operation can only have one Principal, guaranteed by WithPrincipal's
// set-once semantics.
type Principal struct {
	Type   PrincipalType
	UserID *uuid.UUID
}

// IsSystem checks if it is a system principal.
func (p Principal) IsSystem() bool {
	return p.Type == PrincipalTypeSystem
}

// IsUser checks if it is a user principal.
func (p Principal) IsUser() bool {
	return p.Type == PrincipalTypeUser
}

// String returns string representation of Principal (for audit logs).
func (p Principal) String() string {
	switch p.Type {
	case PrincipalTypeSystem:
		return "system"
	case PrincipalTypeUser:
		if p.UserID != nil {
			return fmt.Sprintf("user:%s", *p.UserID)
		}

		return "user:unknown"
	default:
		return "unknown"
	}
}

// UserPrincipal builds a user principal for the given user id.
func UserPrincipal(userID uuid.UUID) Principal {
	return Principal{Type: PrincipalTypeUser, UserID: &userID}
}

// principalKey is an unexported key type to prevent external forgery.
type principalKey struct{}

// WithPrincipal installs p as the acting principal for this operation.
// Returns ErrPrincipalAlreadySet if the chain already carries a principal;
// the context must leave scope (or the caller must derive a fresh one)
// before another principal can act.
func WithPrincipal(ctx context.Context, p Principal) (context.Context, error) {
	if existing, ok := GetPrincipal(ctx); ok {
		return ctx, fmt.Errorf("%w: existing=%s, new=%s", ErrPrincipalAlreadySet, existing.String(), p.String())
	}

	return context.WithValue(ctx, principalKey{}, p), nil
}

// GetPrincipal reads the acting principal. Never blocks, never fails.
func GetPrincipal(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}

	p, ok := ctx.Value(principalKey{}).(Principal)

	return p, ok
}

// MustGetPrincipal reads the principal, panics if not present (used in
// chains where the guard has already run).
func MustGetPrincipal(ctx context.Context) Principal {
	p, ok := GetPrincipal(ctx)
	if !ok {
		panic("authz: no principal in context")
	}

	return p
}

// ActorID returns the acting user id for audit stamping, or nil when no
// principal is in context or the principal is not a user (e.g. system
// initiated writes).
func ActorID(ctx context.Context) *uuid.UUID {
	p, ok := GetPrincipal(ctx)
	if !ok || !p.IsUser() || p.UserID == nil {
		return nil
	}

	id := *p.UserID

	return &id
}

// NewUserContext creates context with a user principal, replacing nothing:
// it must only be used on chains without a principal (transport entry
// points); prefer Scoped for units of work.
func NewUserContext(ctx context.Context, userID uuid.UUID) (context.Context, error) {
	return WithPrincipal(ctx, UserPrincipal(userID))
}
