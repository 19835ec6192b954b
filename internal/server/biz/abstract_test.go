package biz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthsoft/orgcore/internal/contexts"
	"github.com/hearthsoft/orgcore/internal/orgs"
	"github.com/hearthsoft/orgcore/internal/scopes"
)

func TestAuthorizeStampsOrganizationID(t *testing.T) {
	env := newTestEnv(t)
	_, aliceCtx := env.newUser(t, "alice@example.com")

	org, err := env.organizations.CreateOrganization(aliceCtx, CreateOrganizationInput{Name: "Acme"})
	require.NoError(t, err)

	authedCtx, gotOrg, membership, err := env.organizations.authorize(aliceCtx, org.ID, orgs.RoleViewer)
	require.NoError(t, err)
	assert.Equal(t, org.ID, gotOrg.ID)
	assert.Equal(t, orgs.RoleAdmin, membership.Role)

	// Everything downstream of the guard sees the organization id.
	gotID, ok := contexts.GetOrganizationID(authedCtx)
	require.True(t, ok)
	assert.Equal(t, org.ID, gotID)

	// The caller's context is left untouched.
	_, ok = contexts.GetOrganizationID(aliceCtx)
	assert.False(t, ok)
}

func TestAuthorizeDeniedForNonMember(t *testing.T) {
	env := newTestEnv(t)
	_, aliceCtx := env.newUser(t, "alice@example.com")
	_, bobCtx := env.newUser(t, "bob@example.com")

	org, err := env.organizations.CreateOrganization(aliceCtx, CreateOrganizationInput{Name: "Acme"})
	require.NoError(t, err)

	_, _, _, err = env.organizations.authorize(bobCtx, org.ID, orgs.RoleViewer)
	assert.ErrorIs(t, err, scopes.ErrNotAMember)
}
