package biz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthsoft/orgcore/internal/authz"
	"github.com/hearthsoft/orgcore/internal/store"
)

func TestUpdateProfileIsSelfOnly(t *testing.T) {
	env := newTestEnv(t)
	alice, aliceCtx := env.newUser(t, "alice@example.com")

	name := "Alice A."
	updated, err := env.users.UpdateProfile(aliceCtx, UpdateProfileInput{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alice A.", updated.FullName)
	assert.Equal(t, alice.ID, updated.ID)

	_, err = env.users.UpdateProfile(context.Background(), UpdateProfileInput{FullName: &name})
	assert.Error(t, err)
}

func TestDeactivateUserRequiresSystem(t *testing.T) {
	env := newTestEnv(t)
	alice, aliceCtx := env.newUser(t, "alice@example.com")

	assert.Error(t, env.users.DeactivateUser(aliceCtx, alice.ID))

	sysCtx := authz.NewSystemContext(context.Background())
	require.NoError(t, env.users.DeactivateUser(sysCtx, alice.ID))

	_, err := env.users.GetUser(sysCtx, alice.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// The freed email can be registered again.
	_, err = env.users.CreateUser(sysCtx, CreateUserInput{Email: "alice@example.com"})
	assert.NoError(t, err)
}

func TestEffectiveLanguageFallsBackToDefaultOrg(t *testing.T) {
	env := newTestEnv(t)
	alice, aliceCtx := env.newUser(t, "alice@example.com")

	// No memberships at all: system default.
	lang, err := env.users.EffectiveLanguage(aliceCtx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "en", lang)

	_, err = env.organizations.CreateOrganization(aliceCtx, CreateOrganizationInput{Name: "Acme", Language: "de"})
	require.NoError(t, err)

	lang, err = env.users.EffectiveLanguage(aliceCtx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "de", lang)

	// An explicit user preference wins.
	pref := "fr"
	_, err = env.users.UpdateProfile(aliceCtx, UpdateProfileInput{Language: &pref})
	require.NoError(t, err)

	lang, err = env.users.EffectiveLanguage(aliceCtx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "fr", lang)
}

func TestRecordLogin(t *testing.T) {
	env := newTestEnv(t)
	alice, aliceCtx := env.newUser(t, "alice@example.com")

	require.NoError(t, env.users.RecordLogin(aliceCtx, alice.ID, "203.0.113.7"))

	got, err := env.users.GetUser(aliceCtx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.7", got.LastLoginIP)
}
