package biz

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthsoft/orgcore/internal/orgs"
	"github.com/hearthsoft/orgcore/internal/scopes"
)

func TestAddMemberEnforcesPlanLimit(t *testing.T) {
	env := newTestEnv(t)
	_, aliceCtx := env.newUser(t, "alice@example.com")

	// Free plan: five active members including the creator.
	org, err := env.organizations.CreateOrganization(aliceCtx, CreateOrganizationInput{Name: "Acme"})
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		user, _ := env.newUser(t, fmt.Sprintf("member%d@example.com", i))

		_, err = env.memberships.AddMember(aliceCtx, org.ID, user.ID, orgs.RoleViewer)
		require.NoError(t, err)
	}

	over, _ := env.newUser(t, "over@example.com")
	_, err = env.memberships.AddMember(aliceCtx, org.ID, over.ID, orgs.RoleViewer)
	assert.ErrorIs(t, err, ErrMemberLimitReached)

	// Upgrading the plan lifts the limit.
	plan := orgs.PlanEnterprise
	_, err = env.organizations.UpdateOrganization(aliceCtx, org.ID, UpdateOrganizationInput{Plan: &plan})
	require.NoError(t, err)

	_, err = env.memberships.AddMember(aliceCtx, org.ID, over.ID, orgs.RoleViewer)
	assert.NoError(t, err)
}

func TestAddMemberRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	_, aliceCtx := env.newUser(t, "alice@example.com")
	bob, bobCtx := env.newUser(t, "bob@example.com")
	carol, _ := env.newUser(t, "carol@example.com")

	org, err := env.organizations.CreateOrganization(aliceCtx, CreateOrganizationInput{Name: "Acme"})
	require.NoError(t, err)

	_, err = env.memberships.AddMember(aliceCtx, org.ID, bob.ID, orgs.RoleManager)
	require.NoError(t, err)

	// Manager cannot manage members.
	_, err = env.memberships.AddMember(bobCtx, org.ID, carol.ID, orgs.RoleViewer)
	assert.ErrorIs(t, err, scopes.ErrInsufficientRole)
}

func TestLastAdminProtection(t *testing.T) {
	env := newTestEnv(t)
	alice, aliceCtx := env.newUser(t, "alice@example.com")
	bob, _ := env.newUser(t, "bob@example.com")

	org, err := env.organizations.CreateOrganization(aliceCtx, CreateOrganizationInput{Name: "Acme"})
	require.NoError(t, err)

	_, err = env.memberships.AddMember(aliceCtx, org.ID, bob.ID, orgs.RoleViewer)
	require.NoError(t, err)

	// The only admin can neither demote themselves nor leave.
	err = env.memberships.ChangeRole(aliceCtx, org.ID, alice.ID, orgs.RoleViewer)
	assert.ErrorIs(t, err, ErrLastAdmin)

	err = env.memberships.RemoveMember(aliceCtx, org.ID, alice.ID)
	assert.ErrorIs(t, err, ErrLastAdmin)

	// With a second admin both succeed.
	require.NoError(t, env.memberships.ChangeRole(aliceCtx, org.ID, bob.ID, orgs.RoleAdmin))
	require.NoError(t, env.memberships.ChangeRole(aliceCtx, org.ID, alice.ID, orgs.RoleViewer))

	role, err := env.store.Memberships.GetRole(aliceCtx, alice.ID, org.ID)
	require.NoError(t, err)
	assert.Equal(t, orgs.RoleViewer, role)
}

func TestRemoveMemberAndSelfLeave(t *testing.T) {
	env := newTestEnv(t)
	_, aliceCtx := env.newUser(t, "alice@example.com")
	bob, bobCtx := env.newUser(t, "bob@example.com")
	carol, carolCtx := env.newUser(t, "carol@example.com")

	org, err := env.organizations.CreateOrganization(aliceCtx, CreateOrganizationInput{Name: "Acme"})
	require.NoError(t, err)

	_, err = env.memberships.AddMember(aliceCtx, org.ID, bob.ID, orgs.RoleViewer)
	require.NoError(t, err)

	_, err = env.memberships.AddMember(aliceCtx, org.ID, carol.ID, orgs.RoleViewer)
	require.NoError(t, err)

	// A viewer cannot remove another member.
	err = env.memberships.RemoveMember(bobCtx, org.ID, carol.ID)
	assert.ErrorIs(t, err, scopes.ErrInsufficientRole)

	// But may leave on their own.
	require.NoError(t, env.memberships.RemoveMember(bobCtx, org.ID, bob.ID))

	_, err = env.organizations.GetOrganization(bobCtx, org.ID)
	assert.ErrorIs(t, err, scopes.ErrNotAMember)

	// Admin removes the rest.
	require.NoError(t, env.memberships.RemoveMember(aliceCtx, org.ID, carol.ID))

	_, err = env.organizations.GetOrganization(carolCtx, org.ID)
	assert.ErrorIs(t, err, scopes.ErrNotAMember)
}

func TestSetDefaultMembership(t *testing.T) {
	env := newTestEnv(t)
	alice, aliceCtx := env.newUser(t, "alice@example.com")

	first, err := env.organizations.CreateOrganization(aliceCtx, CreateOrganizationInput{Name: "Acme"})
	require.NoError(t, err)

	second, err := env.organizations.CreateOrganization(aliceCtx, CreateOrganizationInput{Name: "Beta"})
	require.NoError(t, err)

	def, err := env.users.DefaultOrganization(aliceCtx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, def.ID)

	require.NoError(t, env.memberships.SetDefaultMembership(aliceCtx, second.ID))

	def, err = env.users.DefaultOrganization(aliceCtx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, def.ID)
}

func TestListMembers(t *testing.T) {
	env := newTestEnv(t)
	_, aliceCtx := env.newUser(t, "alice@example.com")
	bob, bobCtx := env.newUser(t, "bob@example.com")

	org, err := env.organizations.CreateOrganization(aliceCtx, CreateOrganizationInput{Name: "Acme"})
	require.NoError(t, err)

	_, err = env.memberships.AddMember(aliceCtx, org.ID, bob.ID, orgs.RoleViewer)
	require.NoError(t, err)

	members, err := env.memberships.ListMembers(bobCtx, org.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}
