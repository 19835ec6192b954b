package scopes

import "errors"

// Guard failures are distinct, typed, and never collapsed, so transports
// can map each to its own status code. Whether OrganizationNotFound and
// NotAMember are made indistinguishable to outside callers (to avoid
// tenant enumeration) is an integrator decision, not taken here.
var (
	// ErrOrganizationNotFound: the organization does not exist or is
	// soft-deleted.
	ErrOrganizationNotFound = errors.New("scopes: organization not found")

	// ErrUnauthenticated: no principal in context.
	ErrUnauthenticated = errors.New("scopes: unauthenticated")

	// ErrNotAMember: the principal holds no active membership in the
	// organization.
	ErrNotAMember = errors.New("scopes: not a member of the organization")

	// ErrInsufficientRole: the membership role does not satisfy the
	// required role.
	ErrInsufficientRole = errors.New("scopes: insufficient role")
)
