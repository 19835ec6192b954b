package projects

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/hearthsoft/orgcore/internal/entity"
)

var (
	errEndBeforeStart = errors.New("projects: end date must be after start date")
	errEmptyTagTitle  = errors.New("projects: tag title cannot be empty")
)

// Tag is a lightweight label shared across an organization's records.
// Titles are unique per organization among active tags.
type Tag struct {
	entity.Base

	OrganizationID uuid.UUID `json:"organization_id"`
	Title          string    `json:"title"`
	Definition     string    `json:"definition"`
}

// PIIFields declares the tag fields containing personally-identifying data.
func (Tag) PIIFields() []string {
	return []string{"title", "definition"}
}

// Validate normalizes the title and rejects empty ones.
func (t *Tag) Validate() error {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return errEmptyTagTitle
	}

	return nil
}
