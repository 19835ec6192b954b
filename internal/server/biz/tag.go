package biz

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/fx"

	"github.com/hearthsoft/orgcore/internal/orgs"
	"github.com/hearthsoft/orgcore/internal/projects"
	"github.com/hearthsoft/orgcore/internal/scopes"
	"github.com/hearthsoft/orgcore/internal/store"
)

type TagServiceParams struct {
	fx.In

	Store *store.Store
	Guard *scopes.Guard
}

type TagService struct {
	*AbstractService
}

func NewTagService(params TagServiceParams) *TagService {
	return &TagService{
		AbstractService: &AbstractService{store: params.Store, guard: params.Guard},
	}
}

// CreateTag creates a tag in the organization. Manager or above.
func (s *TagService) CreateTag(ctx context.Context, orgID uuid.UUID, title, definition string) (*projects.Tag, error) {
	ctx, _, _, err := s.authorize(ctx, orgID, orgs.RoleManager)
	if err != nil {
		return nil, err
	}

	tag := &projects.Tag{
		OrganizationID: orgID,
		Title:          title,
		Definition:     definition,
	}

	if err := s.store.Tags.Create(ctx, tag); err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}

	return tag, nil
}

// UpdateTag updates a tag's title and definition. Manager or above; the
// tag must belong to the organization the caller was authorized against.
func (s *TagService) UpdateTag(ctx context.Context, orgID, tagID uuid.UUID, title, definition string) (*projects.Tag, error) {
	ctx, _, _, err := s.authorize(ctx, orgID, orgs.RoleManager)
	if err != nil {
		return nil, err
	}

	tag, err := s.store.Tags.Get(ctx, tagID)
	if err != nil {
		return nil, err
	}

	if tag.OrganizationID != orgID {
		return nil, ErrWrongOrganization
	}

	tag.Title = title
	tag.Definition = definition

	if err := s.store.Tags.Update(ctx, tag); err != nil {
		return nil, fmt.Errorf("update tag: %w", err)
	}

	return tag, nil
}

// DeleteTag soft-deletes the tag. Manager or above.
func (s *TagService) DeleteTag(ctx context.Context, orgID, tagID uuid.UUID) error {
	ctx, _, _, err := s.authorize(ctx, orgID, orgs.RoleManager)
	if err != nil {
		return err
	}

	tag, err := s.store.Tags.Get(ctx, tagID)
	if err != nil {
		return err
	}

	if tag.OrganizationID != orgID {
		return ErrWrongOrganization
	}

	return s.store.Tags.SoftDelete(ctx, tagID)
}

// ListTags returns the organization's active tags. Any active member.
func (s *TagService) ListTags(ctx context.Context, orgID uuid.UUID) ([]*projects.Tag, error) {
	ctx, _, _, err := s.authorize(ctx, orgID, orgs.RoleViewer)
	if err != nil {
		return nil, err
	}

	return s.store.Tags.ListByOrganization(ctx, orgID)
}
