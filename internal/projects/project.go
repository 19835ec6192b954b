// Package projects defines the tenant-owned workspace records. They carry
// no access or audit logic of their own: embedding entity.Base and going
// through the standard repositories is all it takes to get audit stamping,
// soft delete, and org scoping.
package projects

import (
	"time"

	"github.com/google/uuid"

	"github.com/hearthsoft/orgcore/internal/entity"
)

// Status is a project's lifecycle stage.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusOnHold     Status = "on_hold"
)

// Project is a unit of work owned by one organization.
type Project struct {
	entity.Base

	OrganizationID uuid.UUID  `json:"organization_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         Status     `json:"status"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
}

// PIIFields declares the project fields containing personally-identifying
// data.
func (Project) PIIFields() []string {
	return []string{"title", "description"}
}

// Validate checks the date range invariant.
func (p *Project) Validate() error {
	if p.StartDate != nil && p.EndDate != nil && p.StartDate.After(*p.EndDate) {
		return errEndBeforeStart
	}

	return nil
}
