package orgs

import (
	"github.com/google/uuid"

	"github.com/hearthsoft/orgcore/internal/entity"
)

// Membership binds exactly one user to exactly one organization with a
// role. A user may hold different roles in different organizations; at
// most one membership per user is the default.
type Membership struct {
	entity.Base

	UserID         uuid.UUID `json:"user_id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Role           Role      `json:"role"`
	IsDefault      bool      `json:"is_default"`
}

// PIIFields declares that memberships carry no personally-identifying data.
func (Membership) PIIFields() []string {
	return []string{}
}

// HasRole reports whether the membership satisfies the minimum role.
func (m *Membership) HasRole(minimum Role) bool {
	return m.Role.AtLeast(minimum)
}
