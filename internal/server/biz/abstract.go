// Package biz is the service layer. Every operation resolves access
// through the org guard first, then reaches the repositories, which apply
// audit stamping and soft-delete scoping on their own. Services add
// cross-record rules on top: plan limits, default-membership handling,
// last-admin protection.
package biz

import (
	"context"

	"github.com/google/uuid"

	"github.com/hearthsoft/orgcore/internal/contexts"
	"github.com/hearthsoft/orgcore/internal/orgs"
	"github.com/hearthsoft/orgcore/internal/scopes"
	"github.com/hearthsoft/orgcore/internal/store"
)

type AbstractService struct {
	store *store.Store
	guard *scopes.Guard
}

// authorize resolves access through the guard and stamps the organization
// id into the context, so every log record emitted from here down carries
// it. The returned context must be used for the rest of the operation.
func (a *AbstractService) authorize(ctx context.Context, orgID uuid.UUID, minimum orgs.Role) (context.Context, *orgs.Organization, *orgs.Membership, error) {
	ctx = contexts.WithOrganizationID(ctx, orgID)

	org, membership, err := a.guard.Check(ctx, orgID, minimum)
	if err != nil {
		return ctx, nil, nil, err
	}

	return ctx, org, membership, nil
}

// RunInTransaction runs fn inside one storage transaction; nested calls
// join the outer transaction.
func (a *AbstractService) RunInTransaction(ctx context.Context, fn func(context.Context) error) error {
	return a.store.RunInTransaction(ctx, fn)
}
