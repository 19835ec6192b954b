package biz

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/fx"

	"github.com/hearthsoft/orgcore/internal/log"
	"github.com/hearthsoft/orgcore/internal/orgs"
	"github.com/hearthsoft/orgcore/internal/projects"
	"github.com/hearthsoft/orgcore/internal/scopes"
	"github.com/hearthsoft/orgcore/internal/store"
)

type ProjectServiceParams struct {
	fx.In

	Store *store.Store
	Guard *scopes.Guard
}

type ProjectService struct {
	*AbstractService
}

func NewProjectService(params ProjectServiceParams) *ProjectService {
	return &ProjectService{
		AbstractService: &AbstractService{store: params.Store, guard: params.Guard},
	}
}

type CreateProjectInput struct {
	Title       string
	Description string
	Status      projects.Status
	StartDate   *time.Time
	EndDate     *time.Time
}

// CreateProject creates a project in the organization. Manager or above;
// the organization's plan must have project capacity left.
func (s *ProjectService) CreateProject(ctx context.Context, orgID uuid.UUID, input CreateProjectInput) (*projects.Project, error) {
	ctx, org, _, err := s.authorize(ctx, orgID, orgs.RoleManager)
	if err != nil {
		return nil, err
	}

	p := &projects.Project{
		OrganizationID: orgID,
		Title:          input.Title,
		Description:    input.Description,
		Status:         input.Status,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
	}

	err = s.RunInTransaction(ctx, func(ctx context.Context) error {
		count, err := s.store.Projects.CountActive(ctx, orgID)
		if err != nil {
			return err
		}

		if maxProjects := org.Plan.Limits().MaxProjects; maxProjects != nil && count >= *maxProjects {
			return fmt.Errorf("%w: %s allows %d", ErrProjectLimitReached, org.Plan, *maxProjects)
		}

		return s.store.Projects.Create(ctx, p)
	})
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	log.Info(ctx, "project created",
		log.Stringer("organization_id", orgID),
		log.Stringer("project_id", p.ID),
	)

	return p, nil
}

type UpdateProjectInput struct {
	Title       *string
	Description *string
	Status      *projects.Status
	StartDate   *time.Time
	EndDate     *time.Time
	ClearDates  bool
}

// UpdateProject applies the non-nil input fields. Manager or above; the
// project must belong to the organization the caller was authorized
// against.
func (s *ProjectService) UpdateProject(ctx context.Context, orgID, projectID uuid.UUID, input UpdateProjectInput) (*projects.Project, error) {
	ctx, _, _, err := s.authorize(ctx, orgID, orgs.RoleManager)
	if err != nil {
		return nil, err
	}

	p, err := s.store.Projects.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if p.OrganizationID != orgID {
		return nil, ErrWrongOrganization
	}

	if input.Title != nil {
		p.Title = *input.Title
	}

	if input.Description != nil {
		p.Description = *input.Description
	}

	if input.Status != nil {
		p.Status = *input.Status
	}

	if input.ClearDates {
		p.StartDate, p.EndDate = nil, nil
	}

	if input.StartDate != nil {
		p.StartDate = input.StartDate
	}

	if input.EndDate != nil {
		p.EndDate = input.EndDate
	}

	if err := s.store.Projects.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}

	return p, nil
}

// GetProject returns the project. Any active member of its organization.
func (s *ProjectService) GetProject(ctx context.Context, orgID, projectID uuid.UUID) (*projects.Project, error) {
	ctx, _, _, err := s.authorize(ctx, orgID, orgs.RoleViewer)
	if err != nil {
		return nil, err
	}

	p, err := s.store.Projects.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if p.OrganizationID != orgID {
		return nil, ErrWrongOrganization
	}

	return p, nil
}

// DeleteProject soft-deletes the project. Manager or above.
func (s *ProjectService) DeleteProject(ctx context.Context, orgID, projectID uuid.UUID) error {
	ctx, _, _, err := s.authorize(ctx, orgID, orgs.RoleManager)
	if err != nil {
		return err
	}

	p, err := s.store.Projects.Get(ctx, projectID)
	if err != nil {
		return err
	}

	if p.OrganizationID != orgID {
		return ErrWrongOrganization
	}

	return s.store.Projects.SoftDelete(ctx, projectID)
}

// ListProjects returns the organization's active projects. Any active
// member.
func (s *ProjectService) ListProjects(ctx context.Context, orgID uuid.UUID) ([]*projects.Project, error) {
	ctx, _, _, err := s.authorize(ctx, orgID, orgs.RoleViewer)
	if err != nil {
		return nil, err
	}

	return s.store.Projects.ListByOrganization(ctx, orgID)
}
