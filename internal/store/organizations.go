package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hearthsoft/orgcore/internal/entity"
	"github.com/hearthsoft/orgcore/internal/orgs"
)

const organizationsTable = "organizations"

const organizationColumns = baseColumns + ", name, description, plan, language, is_active"

// OrganizationRepo persists organizations. The zero scope sees active rows
// only; All() widens it to include soft-deleted rows.
type OrganizationRepo struct {
	store       *Store
	withDeleted bool
}

// All returns a repository view that includes soft-deleted organizations.
func (r *OrganizationRepo) All() *OrganizationRepo {
	return &OrganizationRepo{store: r.store, withDeleted: true}
}

func (r *OrganizationRepo) scope() string {
	if r.withDeleted {
		return ""
	}

	return " AND deleted_at IS NULL"
}

// Create inserts the organization, stamping identity and audit fields from
// the context principal.
func (r *OrganizationRepo) Create(ctx context.Context, org *orgs.Organization) error {
	if org.Plan == "" {
		org.Plan = orgs.PlanFree
	}

	if org.Language == "" {
		org.Language = orgs.DefaultLanguage
	}

	return r.store.RunInTransaction(ctx, func(ctx context.Context) error {
		entity.StampCreate(ctx, &org.Base)

		args := append(baseArgs(&org.Base),
			org.Name, org.Description, string(org.Plan), org.Language, org.IsActive,
		)

		_, err := r.store.conn(ctx).ExecContext(ctx,
			"INSERT INTO organizations ("+organizationColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			args...,
		)
		if err != nil {
			return fmt.Errorf("store: create organization: %w", mapConstraintError(err))
		}

		return nil
	})
}

// Get returns the organization by id within the repository's scope.
func (r *OrganizationRepo) Get(ctx context.Context, id uuid.UUID) (*orgs.Organization, error) {
	row := r.store.conn(ctx).QueryRowContext(ctx,
		"SELECT "+organizationColumns+" FROM organizations WHERE id = ?"+r.scope(),
		id.String(),
	)

	return scanOrganization(row)
}

// List returns organizations within the repository's scope, newest first.
func (r *OrganizationRepo) List(ctx context.Context) ([]*orgs.Organization, error) {
	query := "SELECT " + organizationColumns + " FROM organizations WHERE 1 = 1" + r.scope() +
		" ORDER BY created_at DESC"

	rows, err := r.store.conn(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: list organizations: %w", err)
	}
	defer rows.Close()

	var out []*orgs.Organization

	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, org)
	}

	return out, rows.Err()
}

// Update persists the mutable fields of an active organization. Creation
// audit fields must be untouched.
func (r *OrganizationRepo) Update(ctx context.Context, org *orgs.Organization) error {
	return r.store.RunInTransaction(ctx, func(ctx context.Context) error {
		stored, err := r.store.loadBase(ctx, organizationsTable, org.ID, true)
		if err != nil {
			return err
		}

		if err := verifyImmutable(&stored, &org.Base); err != nil {
			return err
		}

		entity.StampUpdate(ctx, &org.Base)

		_, err = r.store.conn(ctx).ExecContext(ctx,
			`UPDATE organizations
			 SET name = ?, description = ?, plan = ?, language = ?, is_active = ?,
			     updated_at = ?, updated_by = ?
			 WHERE id = ? AND deleted_at IS NULL`,
			org.Name, org.Description, string(org.Plan), org.Language, org.IsActive,
			encodeTime(org.UpdatedAt), encodeUUIDRef(org.UpdatedBy), org.ID.String(),
		)
		if err != nil {
			return fmt.Errorf("store: update organization: %w", mapConstraintError(err))
		}

		return nil
	})
}

// SoftDelete marks the organization deleted. Memberships, tags, and
// projects of the organization are left untouched; access checks refuse
// them because the organization itself is no longer active.
func (r *OrganizationRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.store.softDeleteRow(ctx, organizationsTable, id)
}

// Restore clears a previous soft delete.
func (r *OrganizationRepo) Restore(ctx context.Context, id uuid.UUID) error {
	return r.store.restoreRow(ctx, organizationsTable, id)
}

// HardDelete physically removes the organization row.
func (r *OrganizationRepo) HardDelete(ctx context.Context, id uuid.UUID) error {
	return r.store.hardDeleteRow(ctx, organizationsTable, id)
}

// ActiveOrganization reports whether an active organization with the id
// exists. Soft-deleted organizations are absent from this view.
func (r *OrganizationRepo) ActiveOrganization(ctx context.Context, id uuid.UUID) (*orgs.Organization, bool, error) {
	org, err := r.store.Organizations.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, err
	}

	return org, true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrganization(row rowScanner) (*orgs.Organization, error) {
	var (
		base baseRow
		org  orgs.Organization
		plan string
	)

	dest := append(base.fields(),
		&org.Name, &org.Description, &plan, &org.Language, &org.IsActive,
	)

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("store: scan organization: %w", err)
	}

	if err := base.decode(&org.Base); err != nil {
		return nil, err
	}

	org.Plan = orgs.Plan(plan)

	return &org, nil
}
