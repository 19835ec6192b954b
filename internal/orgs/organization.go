// Package orgs defines the tenant domain model: organizations, users, and
// the memberships binding them with a role.
package orgs

import (
	"github.com/hearthsoft/orgcore/internal/entity"
)

// Plan is an organization's subscription tier.
type Plan string

const (
	PlanFree       Plan = "free"
	PlanStandard   Plan = "standard"
	PlanEnterprise Plan = "enterprise"
)

// PlanLimits are the per-plan capacity limits. Nil means unlimited.
type PlanLimits struct {
	MaxMembers  *int
	MaxProjects *int
}

func intRef(v int) *int { return &v }

var planLimits = map[Plan]PlanLimits{
	PlanFree:       {MaxMembers: intRef(5), MaxProjects: intRef(10)},
	PlanStandard:   {MaxMembers: intRef(25), MaxProjects: intRef(100)},
	PlanEnterprise: {},
}

// Limits returns the capacity limits for the plan; unknown plans get the
// free tier's limits.
func (p Plan) Limits() PlanLimits {
	if limits, ok := planLimits[p]; ok {
		return limits
	}

	return planLimits[PlanFree]
}

// IsPremium reports whether the plan is a paid tier.
func (p Plan) IsPremium() bool {
	return p == PlanStandard || p == PlanEnterprise
}

// Organization is the tenant boundary scoping data ownership and access.
type Organization struct {
	entity.Base

	Name        string `json:"name"`
	Description string `json:"description"`
	Plan        Plan   `json:"plan"`
	Language    string `json:"language"`
	IsActive    bool   `json:"is_active"`
}

// PIIFields declares the organization fields containing
// personally-identifying data.
func (Organization) PIIFields() []string {
	return []string{"name"}
}

// CanAddMembers reports whether the plan allows adding that many more
// members on top of the current active count.
func (o *Organization) CanAddMembers(currentMembers, additional int) bool {
	maxMembers := o.Plan.Limits().MaxMembers
	if maxMembers == nil {
		return true
	}

	return currentMembers+additional <= *maxMembers
}
