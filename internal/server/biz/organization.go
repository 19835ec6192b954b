package biz

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/fx"

	"github.com/hearthsoft/orgcore/internal/authz"
	"github.com/hearthsoft/orgcore/internal/log"
	"github.com/hearthsoft/orgcore/internal/orgs"
	"github.com/hearthsoft/orgcore/internal/scopes"
	"github.com/hearthsoft/orgcore/internal/store"
)

type OrganizationServiceParams struct {
	fx.In

	Store *store.Store
	Guard *scopes.Guard
}

type OrganizationService struct {
	*AbstractService
}

func NewOrganizationService(params OrganizationServiceParams) *OrganizationService {
	return &OrganizationService{
		AbstractService: &AbstractService{store: params.Store, guard: params.Guard},
	}
}

type CreateOrganizationInput struct {
	Name        string
	Description string
	Plan        orgs.Plan
	Language    string
}

// CreateOrganization creates the organization and enrolls the acting user
// as its admin in the same transaction. The new membership becomes the
// user's default when they have none yet.
func (s *OrganizationService) CreateOrganization(ctx context.Context, input CreateOrganizationInput) (*orgs.Organization, error) {
	principal, ok := authz.GetPrincipal(ctx)
	if !ok || !principal.IsUser() || principal.UserID == nil {
		return nil, scopes.ErrUnauthenticated
	}

	org := &orgs.Organization{
		Name:        input.Name,
		Description: input.Description,
		Plan:        input.Plan,
		Language:    input.Language,
		IsActive:    true,
	}

	err := s.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.store.Organizations.Create(ctx, org); err != nil {
			return err
		}

		_, err := s.store.Memberships.GetDefault(ctx, *principal.UserID)
		hasDefault := err == nil

		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}

		membership := &orgs.Membership{
			UserID:         *principal.UserID,
			OrganizationID: org.ID,
			Role:           orgs.RoleAdmin,
			IsDefault:      !hasDefault,
		}

		return s.store.Memberships.Create(ctx, membership)
	})
	if err != nil {
		return nil, fmt.Errorf("create organization: %w", err)
	}

	log.Info(ctx, "organization created",
		log.Stringer("organization_id", org.ID),
		log.String("name", org.Name),
	)

	return org, nil
}

// GetOrganization returns the organization; any active member may read it.
func (s *OrganizationService) GetOrganization(ctx context.Context, orgID uuid.UUID) (*orgs.Organization, error) {
	_, org, _, err := s.authorize(ctx, orgID, orgs.RoleViewer)
	if err != nil {
		return nil, err
	}

	return org, nil
}

type UpdateOrganizationInput struct {
	Name        *string
	Description *string
	Plan        *orgs.Plan
	Language    *string
	IsActive    *bool
}

// UpdateOrganization applies the non-nil input fields. Admin only.
func (s *OrganizationService) UpdateOrganization(ctx context.Context, orgID uuid.UUID, input UpdateOrganizationInput) (*orgs.Organization, error) {
	ctx, org, _, err := s.authorize(ctx, orgID, orgs.RoleAdmin)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		org.Name = *input.Name
	}

	if input.Description != nil {
		org.Description = *input.Description
	}

	if input.Plan != nil {
		org.Plan = *input.Plan
	}

	if input.Language != nil {
		org.Language = *input.Language
	}

	if input.IsActive != nil {
		org.IsActive = *input.IsActive
	}

	if err := s.store.Organizations.Update(ctx, org); err != nil {
		return nil, fmt.Errorf("update organization: %w", err)
	}

	return org, nil
}

// DeleteOrganization soft-deletes the organization. Admin only. Member,
// tag, and project records are left in place; access stops because the
// organization no longer resolves as active.
func (s *OrganizationService) DeleteOrganization(ctx context.Context, orgID uuid.UUID) error {
	ctx, _, _, err := s.authorize(ctx, orgID, orgs.RoleAdmin)
	if err != nil {
		return err
	}

	if err := s.store.Organizations.SoftDelete(ctx, orgID); err != nil {
		return fmt.Errorf("delete organization: %w", err)
	}

	log.Info(ctx, "organization soft-deleted", log.Stringer("organization_id", orgID))

	return nil
}

// RestoreOrganization reverses a soft delete. A deleted organization fails
// every member-scoped access check, so restoration requires the system
// principal.
func (s *OrganizationService) RestoreOrganization(ctx context.Context, orgID uuid.UUID) error {
	if err := authz.RequireSystemPrincipal(ctx); err != nil {
		return err
	}

	if err := s.store.Organizations.Restore(ctx, orgID); err != nil {
		return fmt.Errorf("restore organization: %w", err)
	}

	return nil
}

// ListOrganizations returns the active organizations the acting user is a
// member of.
func (s *OrganizationService) ListOrganizations(ctx context.Context) ([]*orgs.Organization, error) {
	principal, ok := authz.GetPrincipal(ctx)
	if !ok || !principal.IsUser() || principal.UserID == nil {
		return nil, scopes.ErrUnauthenticated
	}

	memberships, err := s.store.Memberships.ListByUser(ctx, *principal.UserID)
	if err != nil {
		return nil, err
	}

	out := make([]*orgs.Organization, 0, len(memberships))

	for _, m := range memberships {
		org, err := s.store.Organizations.Get(ctx, m.OrganizationID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}

		if err != nil {
			return nil, err
		}

		out = append(out, org)
	}

	return out, nil
}
