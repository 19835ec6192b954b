package orgs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlan_Limits(t *testing.T) {
	free := PlanFree.Limits()
	assert.Equal(t, 5, *free.MaxMembers)
	assert.Equal(t, 10, *free.MaxProjects)

	enterprise := PlanEnterprise.Limits()
	assert.Nil(t, enterprise.MaxMembers)
	assert.Nil(t, enterprise.MaxProjects)

	// Unknown plans fall back to the free tier.
	unknown := Plan("trial").Limits()
	assert.Equal(t, 5, *unknown.MaxMembers)
}

func TestPlan_IsPremium(t *testing.T) {
	assert.False(t, PlanFree.IsPremium())
	assert.True(t, PlanStandard.IsPremium())
	assert.True(t, PlanEnterprise.IsPremium())
}

func TestOrganization_CanAddMembers(t *testing.T) {
	org := &Organization{Plan: PlanFree}
	assert.True(t, org.CanAddMembers(4, 1))
	assert.False(t, org.CanAddMembers(5, 1))

	unlimited := &Organization{Plan: PlanEnterprise}
	assert.True(t, unlimited.CanAddMembers(10_000, 1))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@example.com", NormalizeEmail("  Alice@Example.COM "))
}

func TestUser_EffectiveLanguage(t *testing.T) {
	user := &User{Language: "fr"}
	assert.Equal(t, "fr", user.EffectiveLanguage(nil))

	user = &User{}
	assert.Equal(t, "en", user.EffectiveLanguage(nil))
	assert.Equal(t, "fr", user.EffectiveLanguage(&Organization{Language: "fr"}))
}

func TestUser_ShortName(t *testing.T) {
	assert.Equal(t, "Alice", (&User{FullName: "Alice Liddell"}).ShortName())
	assert.Equal(t, "a@example.com", (&User{Email: "a@example.com"}).ShortName())

	// A whitespace-only full name has no tokens and falls back to the email.
	assert.Equal(t, "a@example.com", (&User{FullName: "   ", Email: "a@example.com"}).ShortName())
}
