package orgs

import (
	"strings"

	"github.com/hearthsoft/orgcore/internal/entity"
)

// DefaultLanguage is the fallback when neither the user nor their default
// organization sets one.
const DefaultLanguage = "en"

// User is a principal capable of acting inside organizations. Users are
// never hard-deleted; deactivation and soft delete are the only exits.
type User struct {
	entity.Base

	// Email is unique case-insensitively among active users.
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	IsActive    bool   `json:"is_active"`
	Language    string `json:"language"`
	Timezone    string `json:"timezone"`
	LastLoginIP string `json:"last_login_ip"`
}

// PIIFields declares the user fields containing personally-identifying data.
func (User) PIIFields() []string {
	return []string{"email", "full_name", "last_login_ip"}
}

// NormalizeEmail lowercases the address for case-insensitive comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ShortName returns the first name token, falling back to the email.
func (u *User) ShortName() string {
	if fields := strings.Fields(u.FullName); len(fields) > 0 {
		return fields[0]
	}

	return u.Email
}

// EffectiveLanguage resolves the user's language preference, falling back
// to the default organization's language when unset. defaultOrg may be nil.
func (u *User) EffectiveLanguage(defaultOrg *Organization) string {
	if u.Language != "" {
		return u.Language
	}

	if defaultOrg != nil && defaultOrg.Language != "" {
		return defaultOrg.Language
	}

	return DefaultLanguage
}
