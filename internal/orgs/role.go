package orgs

import "fmt"

// Role is the closed, totally ordered permission tier inside one
// organization: Viewer < Manager < Admin. Compared numerically; a role is
// never inherited across organizations.
type Role int

const (
	// RoleViewer can read tenant data.
	RoleViewer Role = iota
	// RoleManager can additionally write tenant-owned records.
	RoleManager
	// RoleAdmin can additionally manage members and the organization itself.
	RoleAdmin
)

// String returns the stored representation of the role.
func (r Role) String() string {
	switch r {
	case RoleViewer:
		return "viewer"
	case RoleManager:
		return "manager"
	case RoleAdmin:
		return "admin"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Valid reports whether r is one of the defined tiers.
func (r Role) Valid() bool {
	return r >= RoleViewer && r <= RoleAdmin
}

// AtLeast reports whether r satisfies the minimum tier. Monotonic by
// construction: AtLeast(Manager) implies AtLeast(Viewer).
func (r Role) AtLeast(minimum Role) bool {
	return r >= minimum
}

// ParseRole converts the stored representation back to a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "viewer":
		return RoleViewer, nil
	case "manager":
		return RoleManager, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return RoleViewer, fmt.Errorf("orgs: unknown role %q", s)
	}
}
