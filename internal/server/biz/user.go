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

type UserServiceParams struct {
	fx.In

	Store *store.Store
	Guard *scopes.Guard
}

type UserService struct {
	*AbstractService
}

func NewUserService(params UserServiceParams) *UserService {
	return &UserService{
		AbstractService: &AbstractService{store: params.Store, guard: params.Guard},
	}
}

type CreateUserInput struct {
	Email    string
	FullName string
	Language string
	Timezone string
}

// CreateUser registers a user. Open to any principal, including the
// system principal during provisioning.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*orgs.User, error) {
	user := &orgs.User{
		Email:    input.Email,
		FullName: input.FullName,
		Language: input.Language,
		Timezone: input.Timezone,
		IsActive: true,
	}

	if err := s.store.Users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	log.Info(ctx, "user created", log.Stringer("user_id", user.ID))

	return user, nil
}

// GetUser returns the user by id.
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*orgs.User, error) {
	return s.store.Users.Get(ctx, userID)
}

type UpdateProfileInput struct {
	FullName *string
	Language *string
	Timezone *string
}

// UpdateProfile applies the non-nil input fields to the acting user's own
// profile.
func (s *UserService) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*orgs.User, error) {
	principal, ok := authz.GetPrincipal(ctx)
	if !ok || !principal.IsUser() || principal.UserID == nil {
		return nil, scopes.ErrUnauthenticated
	}

	user, err := s.store.Users.Get(ctx, *principal.UserID)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		user.FullName = *input.FullName
	}

	if input.Language != nil {
		user.Language = *input.Language
	}

	if input.Timezone != nil {
		user.Timezone = *input.Timezone
	}

	if err := s.store.Users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return user, nil
}

// DeactivateUser soft-deletes the user, freeing their email for
// re-registration. System principal only.
func (s *UserService) DeactivateUser(ctx context.Context, userID uuid.UUID) error {
	if err := authz.RequireSystemPrincipal(ctx); err != nil {
		return err
	}

	if err := s.store.Users.SoftDelete(ctx, userID); err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}

	log.Info(ctx, "user deactivated", log.Stringer("user_id", userID))

	return nil
}

// RecordLogin stamps the user's last login address.
func (s *UserService) RecordLogin(ctx context.Context, userID uuid.UUID, ip string) error {
	return s.store.Users.RecordLogin(ctx, userID, ip)
}

// DefaultOrganization resolves the user's default organization via their
// default membership. Returns store.ErrNotFound when the user has no
// default or the organization is gone.
func (s *UserService) DefaultOrganization(ctx context.Context, userID uuid.UUID) (*orgs.Organization, error) {
	membership, err := s.store.Memberships.GetDefault(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.store.Organizations.Get(ctx, membership.OrganizationID)
}

// EffectiveLanguage resolves the user's language, falling back to their
// default organization's language, then the system default.
func (s *UserService) EffectiveLanguage(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		return "", err
	}

	defaultOrg, err := s.DefaultOrganization(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return "", err
	}

	return user.EffectiveLanguage(defaultOrg), nil
}
