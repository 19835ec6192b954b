package orgs

import "github.com/hearthsoft/orgcore/internal/compliance"

//nolint:gochecknoinits // compliance registration must precede boot validation.
func init() {
	compliance.Register(&Organization{})
	compliance.Register(&User{})
	compliance.Register(&Membership{})
}
