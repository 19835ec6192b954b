package biz

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/fx"

	"github.com/hearthsoft/orgcore/internal/authz"
	"github.com/hearthsoft/orgcore/internal/log"
	"github.com/hearthsoft/orgcore/internal/orgs"
	"github.com/hearthsoft/orgcore/internal/scopes"
	"github.com/hearthsoft/orgcore/internal/store"
)

type MembershipServiceParams struct {
	fx.In

	Store *store.Store
	Guard *scopes.Guard
}

type MembershipService struct {
	*AbstractService
}

func NewMembershipService(params MembershipServiceParams) *MembershipService {
	return &MembershipService{
		AbstractService: &AbstractService{store: params.Store, guard: params.Guard},
	}
}

// AddMember enrolls the user into the organization. Admin only; the
// organization's plan must have member capacity left.
func (s *MembershipService) AddMember(ctx context.Context, orgID, userID uuid.UUID, role orgs.Role) (*orgs.Membership, error) {
	ctx, org, _, err := s.authorize(ctx, orgID, orgs.RoleAdmin)
	if err != nil {
		return nil, err
	}

	membership := &orgs.Membership{
		UserID:         userID,
		OrganizationID: orgID,
		Role:           role,
	}

	err = s.RunInTransaction(ctx, func(ctx context.Context) error {
		count, err := s.store.Memberships.CountActive(ctx, orgID)
		if err != nil {
			return err
		}

		if !org.CanAddMembers(count, 1) {
			return fmt.Errorf("%w: %s allows %d", ErrMemberLimitReached, org.Plan, *org.Plan.Limits().MaxMembers)
		}

		return s.store.Memberships.Create(ctx, membership)
	})
	if err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}

	log.Info(ctx, "member added",
		log.Stringer("organization_id", orgID),
		log.Stringer("user_id", userID),
		log.Stringer("role", role),
	)

	return membership, nil
}

// ChangeRole changes a member's role. Admin only; demoting the last admin
// is refused.
func (s *MembershipService) ChangeRole(ctx context.Context, orgID, userID uuid.UUID, role orgs.Role) error {
	ctx, _, _, err := s.authorize(ctx, orgID, orgs.RoleAdmin)
	if err != nil {
		return err
	}

	return s.RunInTransaction(ctx, func(ctx context.Context) error {
		membership, err := s.store.Memberships.GetByUserAndOrganization(ctx, userID, orgID)
		if err != nil {
			return err
		}

		if membership.Role == orgs.RoleAdmin && role != orgs.RoleAdmin {
			if err := s.requireAnotherAdmin(ctx, orgID, membership.ID); err != nil {
				return err
			}
		}

		return s.store.Memberships.UpdateRole(ctx, membership.ID, role)
	})
}

// RemoveMember revokes the user's membership by soft delete. Admins may
// remove anyone; a member may remove themselves (leave). Removing the last
// admin is refused.
func (s *MembershipService) RemoveMember(ctx context.Context, orgID, userID uuid.UUID) error {
	// Leaving needs no admin role, just an active membership.
	actor := authz.ActorID(ctx)

	floor := orgs.RoleAdmin
	if actor != nil && *actor == userID {
		floor = orgs.RoleViewer
	}

	ctx, _, _, err := s.authorize(ctx, orgID, floor)
	if err != nil {
		return err
	}

	return s.RunInTransaction(ctx, func(ctx context.Context) error {
		membership, err := s.store.Memberships.GetByUserAndOrganization(ctx, userID, orgID)
		if err != nil {
			return err
		}

		if membership.Role == orgs.RoleAdmin {
			if err := s.requireAnotherAdmin(ctx, orgID, membership.ID); err != nil {
				return err
			}
		}

		return s.store.Memberships.SoftDelete(ctx, membership.ID)
	})
}

// SetDefaultMembership marks one of the acting user's memberships as their
// default, clearing the previous default.
func (s *MembershipService) SetDefaultMembership(ctx context.Context, orgID uuid.UUID) error {
	ctx, _, membership, err := s.authorize(ctx, orgID, orgs.RoleViewer)
	if err != nil {
		return err
	}

	return s.store.Memberships.SetDefault(ctx, membership.ID)
}

// ListMembers returns the organization's active memberships. Any active
// member may list.
func (s *MembershipService) ListMembers(ctx context.Context, orgID uuid.UUID) ([]*orgs.Membership, error) {
	ctx, _, _, err := s.authorize(ctx, orgID, orgs.RoleViewer)
	if err != nil {
		return nil, err
	}

	return s.store.Memberships.ListByOrganization(ctx, orgID)
}

// requireAnotherAdmin fails with ErrLastAdmin unless the organization has
// an active admin besides the given membership.
func (s *MembershipService) requireAnotherAdmin(ctx context.Context, orgID, exceptID uuid.UUID) error {
	members, err := s.store.Memberships.ListByOrganization(ctx, orgID)
	if err != nil {
		return err
	}

	admins := lo.Filter(members, func(m *orgs.Membership, _ int) bool {
		return m.Role == orgs.RoleAdmin && m.ID != exceptID
	})

	if len(admins) == 0 {
		return ErrLastAdmin
	}

	return nil
}
