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

const membershipsTable = "memberships"

const membershipColumns = baseColumns + ", user_id, organization_id, role, is_default"

// MembershipRepo persists memberships. The zero scope sees active rows
// only; All() widens it to include soft-deleted rows.
type MembershipRepo struct {
	store       *Store
	withDeleted bool
}

// All returns a repository view that includes soft-deleted memberships.
func (r *MembershipRepo) All() *MembershipRepo {
	return &MembershipRepo{store: r.store, withDeleted: true}
}

func (r *MembershipRepo) scope() string {
	if r.withDeleted {
		return ""
	}

	return " AND deleted_at IS NULL"
}

// Create inserts the membership. At most one active membership may exist
// per user and organization, and at most one of a user's memberships may be
// the default; both are enforced by the schema and surface as
// ErrDuplicate and ErrDefaultConflict.
func (r *MembershipRepo) Create(ctx context.Context, m *orgs.Membership) error {
	if !m.Role.Valid() {
		return fmt.Errorf("store: create membership: invalid role %q", m.Role.String())
	}

	return r.store.RunInTransaction(ctx, func(ctx context.Context) error {
		entity.StampCreate(ctx, &m.Base)

		args := append(baseArgs(&m.Base),
			m.UserID.String(), m.OrganizationID.String(), m.Role.String(), m.IsDefault,
		)

		_, err := r.store.conn(ctx).ExecContext(ctx,
			"INSERT INTO memberships ("+membershipColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			args...,
		)
		if err != nil {
			return fmt.Errorf("store: create membership: %w", mapConstraintError(err))
		}

		return nil
	})
}

// Get returns the membership by id within the repository's scope.
func (r *MembershipRepo) Get(ctx context.Context, id uuid.UUID) (*orgs.Membership, error) {
	row := r.store.conn(ctx).QueryRowContext(ctx,
		"SELECT "+membershipColumns+" FROM memberships WHERE id = ?"+r.scope(),
		id.String(),
	)

	return scanMembership(row)
}

// GetByUserAndOrganization returns the user's membership in the
// organization within the repository's scope.
func (r *MembershipRepo) GetByUserAndOrganization(ctx context.Context, userID, orgID uuid.UUID) (*orgs.Membership, error) {
	row := r.store.conn(ctx).QueryRowContext(ctx,
		"SELECT "+membershipColumns+" FROM memberships WHERE user_id = ? AND organization_id = ?"+r.scope(),
		userID.String(), orgID.String(),
	)

	return scanMembership(row)
}

// GetDefault returns the user's default membership, or ErrNotFound when
// none is marked.
func (r *MembershipRepo) GetDefault(ctx context.Context, userID uuid.UUID) (*orgs.Membership, error) {
	row := r.store.conn(ctx).QueryRowContext(ctx,
		"SELECT "+membershipColumns+" FROM memberships WHERE user_id = ? AND is_default = 1 AND deleted_at IS NULL",
		userID.String(),
	)

	return scanMembership(row)
}

// ListByUser returns the user's memberships within the repository's scope.
func (r *MembershipRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*orgs.Membership, error) {
	return r.list(ctx,
		"SELECT "+membershipColumns+" FROM memberships WHERE user_id = ?"+r.scope()+" ORDER BY created_at",
		userID.String(),
	)
}

// ListByOrganization returns the organization's memberships within the
// repository's scope.
func (r *MembershipRepo) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*orgs.Membership, error) {
	return r.list(ctx,
		"SELECT "+membershipColumns+" FROM memberships WHERE organization_id = ?"+r.scope()+" ORDER BY created_at",
		orgID.String(),
	)
}

// CountActive returns the number of active memberships in the
// organization, as counted against plan limits.
func (r *MembershipRepo) CountActive(ctx context.Context, orgID uuid.UUID) (int, error) {
	var count int

	err := r.store.conn(ctx).QueryRowContext(ctx,
		"SELECT count(*) FROM memberships WHERE organization_id = ? AND deleted_at IS NULL",
		orgID.String(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("store: count memberships: %w", err)
	}

	return count, nil
}

// UpdateRole changes the role of an active membership.
func (r *MembershipRepo) UpdateRole(ctx context.Context, id uuid.UUID, role orgs.Role) error {
	if !role.Valid() {
		return fmt.Errorf("store: update membership: invalid role %q", role.String())
	}

	return r.store.RunInTransaction(ctx, func(ctx context.Context) error {
		base, err := r.store.loadBase(ctx, membershipsTable, id, true)
		if err != nil {
			return err
		}

		entity.StampUpdate(ctx, &base)

		_, err = r.store.conn(ctx).ExecContext(ctx,
			"UPDATE memberships SET role = ?, updated_at = ?, updated_by = ? WHERE id = ? AND deleted_at IS NULL",
			role.String(), encodeTime(base.UpdatedAt), encodeUUIDRef(base.UpdatedBy), id.String(),
		)
		if err != nil {
			return fmt.Errorf("store: update membership: %w", err)
		}

		return nil
	})
}

// SetDefault marks the membership as the user's default, clearing any
// previous default in the same transaction.
func (r *MembershipRepo) SetDefault(ctx context.Context, id uuid.UUID) error {
	return r.store.RunInTransaction(ctx, func(ctx context.Context) error {
		m, err := r.store.Memberships.Get(ctx, id)
		if err != nil {
			return err
		}

		if m.IsDefault {
			return nil
		}

		entity.StampUpdate(ctx, &m.Base)

		// Clear first so the one-default index never sees two at once.
		_, err = r.store.conn(ctx).ExecContext(ctx,
			"UPDATE memberships SET is_default = 0, updated_at = ?, updated_by = ? WHERE user_id = ? AND is_default = 1 AND deleted_at IS NULL",
			encodeTime(m.UpdatedAt), encodeUUIDRef(m.UpdatedBy), m.UserID.String(),
		)
		if err != nil {
			return fmt.Errorf("store: clear default membership: %w", err)
		}

		_, err = r.store.conn(ctx).ExecContext(ctx,
			"UPDATE memberships SET is_default = 1, updated_at = ?, updated_by = ? WHERE id = ? AND deleted_at IS NULL",
			encodeTime(m.UpdatedAt), encodeUUIDRef(m.UpdatedBy), id.String(),
		)
		if err != nil {
			return fmt.Errorf("store: set default membership: %w", mapConstraintError(err))
		}

		return nil
	})
}

// SoftDelete marks the membership deleted, revoking the user's access to
// the organization.
func (r *MembershipRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.store.softDeleteRow(ctx, membershipsTable, id)
}

// Restore clears a previous soft delete. Fails with ErrDuplicate when the
// user has since been re-added to the organization, or ErrDefaultConflict
// when the restored row was the default and another default exists now.
func (r *MembershipRepo) Restore(ctx context.Context, id uuid.UUID) error {
	return r.store.restoreRow(ctx, membershipsTable, id)
}

// HardDelete physically removes the membership row.
func (r *MembershipRepo) HardDelete(ctx context.Context, id uuid.UUID) error {
	return r.store.hardDeleteRow(ctx, membershipsTable, id)
}

// GetRole returns the user's role in the organization. A soft-deleted
// membership is no membership.
func (r *MembershipRepo) GetRole(ctx context.Context, userID, orgID uuid.UUID) (orgs.Role, error) {
	m, err := r.store.Memberships.GetByUserAndOrganization(ctx, userID, orgID)
	if err != nil {
		return 0, err
	}

	return m.Role, nil
}

// HasRole reports whether the user holds at least the minimum role in the
// organization. Absence of a membership is not an error.
func (r *MembershipRepo) HasRole(ctx context.Context, userID, orgID uuid.UUID, minimum orgs.Role) (bool, error) {
	role, err := r.GetRole(ctx, userID, orgID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return role.AtLeast(minimum), nil
}

// ActiveMembership reports whether the user holds an active membership in
// the organization. Soft-deleted memberships are absent from this view.
func (r *MembershipRepo) ActiveMembership(ctx context.Context, userID, orgID uuid.UUID) (*orgs.Membership, bool, error) {
	m, err := r.store.Memberships.GetByUserAndOrganization(ctx, userID, orgID)
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, err
	}

	return m, true, nil
}

func (r *MembershipRepo) list(ctx context.Context, query string, args ...any) ([]*orgs.Membership, error) {
	rows, err := r.store.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list memberships: %w", err)
	}
	defer rows.Close()

	var out []*orgs.Membership

	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, m)
	}

	return out, rows.Err()
}

func scanMembership(row rowScanner) (*orgs.Membership, error) {
	var (
		base   baseRow
		m      orgs.Membership
		userID string
		orgID  string
		role   string
	)

	dest := append(base.fields(), &userID, &orgID, &role, &m.IsDefault)

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("store: scan membership: %w", err)
	}

	if err := base.decode(&m.Base); err != nil {
		return nil, err
	}

	var err error

	if m.UserID, err = uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("store: decode user_id %q: %w", userID, err)
	}

	if m.OrganizationID, err = uuid.Parse(orgID); err != nil {
		return nil, fmt.Errorf("store: decode organization_id %q: %w", orgID, err)
	}

	if m.Role, err = orgs.ParseRole(role); err != nil {
		return nil, fmt.Errorf("store: decode membership: %w", err)
	}

	return &m, nil
}
