// Package scopes is the single checkpoint every tenant-scoped operation
// passes through before reaching business logic.
package scopes

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hearthsoft/orgcore/internal/authz"
	"github.com/hearthsoft/orgcore/internal/log"
	"github.com/hearthsoft/orgcore/internal/orgs"
)

// OrganizationSource resolves active (not soft-deleted) organizations.
// Absence is reported via the ok result, not an error.
type OrganizationSource interface {
	ActiveOrganization(ctx context.Context, id uuid.UUID) (*orgs.Organization, bool, error)
}

// MembershipSource resolves a user's active membership in an organization.
type MembershipSource interface {
	ActiveMembership(ctx context.Context, userID, orgID uuid.UUID) (*orgs.Membership, bool, error)
}

// Guard authorizes inbound tenant-scoped operations. It reads state only;
// it never mutates membership or organization records.
type Guard struct {
	organizations OrganizationSource
	memberships   MembershipSource
}

// NewGuard builds a Guard over the given sources.
func NewGuard(organizations OrganizationSource, memberships MembershipSource) *Guard {
	return &Guard{organizations: organizations, memberships: memberships}
}

// Check authorizes the current principal against the organization,
// resolving in order: organization must exist and be active
// (ErrOrganizationNotFound); a principal must be in context
// (ErrUnauthenticated); the principal must hold an active membership
// (ErrNotAMember); the membership role must satisfy minimum
// (ErrInsufficientRole). On success it returns the resolved organization
// and membership for the downstream handler.
//
// Soft deletion does not cascade: a deleted organization fails the first
// step on every request, so its members lose access immediately without
// their memberships or records being touched.
func (g *Guard) Check(ctx context.Context, orgID uuid.UUID, minimum orgs.Role) (*orgs.Organization, *orgs.Membership, error) {
	org, ok, err := g.organizations.ActiveOrganization(ctx, orgID)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve organization: %w", err)
	}

	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrOrganizationNotFound, orgID)
	}

	principal, ok := authz.GetPrincipal(ctx)
	if !ok || !principal.IsUser() || principal.UserID == nil {
		return nil, nil, ErrUnauthenticated
	}

	membership, ok, err := g.memberships.ActiveMembership(ctx, *principal.UserID, orgID)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve membership: %w", err)
	}

	if !ok {
		return nil, nil, fmt.Errorf("%w: principal=%s org=%s", ErrNotAMember, principal.String(), orgID)
	}

	if !membership.HasRole(minimum) {
		log.Debug(ctx, "access denied: insufficient role",
			log.Stringer("principal", principal),
			log.Stringer("organization_id", orgID),
			log.Stringer("role", membership.Role),
			log.Stringer("required_role", minimum),
		)

		return nil, nil, fmt.Errorf("%w: have %s, need %s", ErrInsufficientRole, membership.Role, minimum)
	}

	return org, membership, nil
}

// CheckAny authorizes against a set of acceptable roles; the membership
// role must equal one of them. An empty set means any active member.
func (g *Guard) CheckAny(ctx context.Context, orgID uuid.UUID, roles ...orgs.Role) (*orgs.Organization, *orgs.Membership, error) {
	org, membership, err := g.Check(ctx, orgID, orgs.RoleViewer)
	if err != nil {
		return nil, nil, err
	}

	if len(roles) == 0 {
		return org, membership, nil
	}

	for _, role := range roles {
		if membership.Role == role {
			return org, membership, nil
		}
	}

	return nil, nil, fmt.Errorf("%w: have %s", ErrInsufficientRole, membership.Role)
}
