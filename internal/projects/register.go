package projects

import "github.com/hearthsoft/orgcore/internal/compliance"

//nolint:gochecknoinits // compliance registration must precede boot validation.
func init() {
	compliance.Register(&Project{})
	compliance.Register(&Tag{})
}
