package scopes

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthsoft/orgcore/internal/authz"
	"github.com/hearthsoft/orgcore/internal/entity"
	"github.com/hearthsoft/orgcore/internal/orgs"
)

type fakeOrgSource struct {
	orgs map[uuid.UUID]*orgs.Organization
}

func (f *fakeOrgSource) ActiveOrganization(_ context.Context, id uuid.UUID) (*orgs.Organization, bool, error) {
	org, ok := f.orgs[id]
	if !ok || org.IsDeleted() {
		return nil, false, nil
	}

	return org, true, nil
}

type membershipKey struct {
	userID uuid.UUID
	orgID  uuid.UUID
}

type fakeMembershipSource struct {
	memberships map[membershipKey]*orgs.Membership
}

func (f *fakeMembershipSource) ActiveMembership(_ context.Context, userID, orgID uuid.UUID) (*orgs.Membership, bool, error) {
	m, ok := f.memberships[membershipKey{userID: userID, orgID: orgID}]
	if !ok || m.IsDeleted() {
		return nil, false, nil
	}

	return m, true, nil
}

func newTestGuard(t *testing.T) (*Guard, *orgs.Organization, uuid.UUID) {
	t.Helper()

	org := &orgs.Organization{Name: "org1", Plan: orgs.PlanFree, IsActive: true}
	org.ID = uuid.New()

	alice := uuid.New()

	membership := &orgs.Membership{
		UserID:         alice,
		OrganizationID: org.ID,
		Role:           orgs.RoleAdmin,
	}
	membership.ID = uuid.New()

	guard := NewGuard(
		&fakeOrgSource{orgs: map[uuid.UUID]*orgs.Organization{org.ID: org}},
		&fakeMembershipSource{memberships: map[membershipKey]*orgs.Membership{
			{userID: alice, orgID: org.ID}: membership,
		}},
	)

	return guard, org, alice
}

func userCtx(t *testing.T, userID uuid.UUID) context.Context {
	t.Helper()

	ctx, err := authz.NewUserContext(context.Background(), userID)
	require.NoError(t, err)

	return ctx
}

func TestGuard_Check_Success(t *testing.T) {
	guard, org, alice := newTestGuard(t)

	gotOrg, gotMembership, err := guard.Check(userCtx(t, alice), org.ID, orgs.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, org.ID, gotOrg.ID)
	assert.Equal(t, alice, gotMembership.UserID)
	assert.Equal(t, orgs.RoleAdmin, gotMembership.Role)
}

func TestGuard_Check_OrganizationNotFound(t *testing.T) {
	guard, _, alice := newTestGuard(t)

	_, _, err := guard.Check(userCtx(t, alice), uuid.New(), orgs.RoleViewer)
	assert.ErrorIs(t, err, ErrOrganizationNotFound)
}

func TestGuard_Check_SoftDeletedOrganizationNotFound(t *testing.T) {
	guard, org, alice := newTestGuard(t)

	entity.StampSoftDelete(context.Background(), &org.Base)

	_, _, err := guard.Check(userCtx(t, alice), org.ID, orgs.RoleViewer)
	assert.ErrorIs(t, err, ErrOrganizationNotFound)
}

func TestGuard_Check_Unauthenticated(t *testing.T) {
	guard, org, _ := newTestGuard(t)

	_, _, err := guard.Check(context.Background(), org.ID, orgs.RoleViewer)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// System principals are not members; tenant operations need a user.
	_, _, err = guard.Check(authz.NewSystemContext(context.Background()), org.ID, orgs.RoleViewer)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestGuard_Check_NotAMember(t *testing.T) {
	guard, org, _ := newTestGuard(t)

	bob := uuid.New()

	_, _, err := guard.Check(userCtx(t, bob), org.ID, orgs.RoleViewer)
	assert.ErrorIs(t, err, ErrNotAMember)
}

func TestGuard_Check_InsufficientRole(t *testing.T) {
	org := &orgs.Organization{Name: "org1", IsActive: true}
	org.ID = uuid.New()

	viewer := uuid.New()
	membership := &orgs.Membership{UserID: viewer, OrganizationID: org.ID, Role: orgs.RoleViewer}

	guard := NewGuard(
		&fakeOrgSource{orgs: map[uuid.UUID]*orgs.Organization{org.ID: org}},
		&fakeMembershipSource{memberships: map[membershipKey]*orgs.Membership{
			{userID: viewer, orgID: org.ID}: membership,
		}},
	)

	_, _, err := guard.Check(userCtx(t, viewer), org.ID, orgs.RoleManager)
	assert.ErrorIs(t, err, ErrInsufficientRole)

	// Viewer still satisfies the viewer floor.
	_, _, err = guard.Check(userCtx(t, viewer), org.ID, orgs.RoleViewer)
	assert.NoError(t, err)
}

func TestGuard_Check_SoftDeletedMembershipCountsAsAbsent(t *testing.T) {
	guard, org, alice := newTestGuard(t)

	source := guard.memberships.(*fakeMembershipSource)
	m := source.memberships[membershipKey{userID: alice, orgID: org.ID}]
	entity.StampSoftDelete(context.Background(), &m.Base)

	_, _, err := guard.Check(userCtx(t, alice), org.ID, orgs.RoleViewer)
	assert.ErrorIs(t, err, ErrNotAMember)
}

func TestGuard_CheckAny(t *testing.T) {
	guard, org, alice := newTestGuard(t)
	ctx := userCtx(t, alice)

	_, _, err := guard.CheckAny(ctx, org.ID, orgs.RoleAdmin)
	assert.NoError(t, err)

	_, _, err = guard.CheckAny(ctx, org.ID, orgs.RoleManager, orgs.RoleViewer)
	assert.ErrorIs(t, err, ErrInsufficientRole)

	// Empty set means any active member.
	_, _, err = guard.CheckAny(ctx, org.ID)
	assert.NoError(t, err)
}
