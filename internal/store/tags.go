package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hearthsoft/orgcore/internal/entity"
	"github.com/hearthsoft/orgcore/internal/projects"
)

const tagsTable = "tags"

const tagColumns = baseColumns + ", organization_id, title, definition"

// TagRepo persists tags. The zero scope sees active rows only; All()
// widens it to include soft-deleted rows.
type TagRepo struct {
	store       *Store
	withDeleted bool
}

// All returns a repository view that includes soft-deleted tags.
func (r *TagRepo) All() *TagRepo {
	return &TagRepo{store: r.store, withDeleted: true}
}

func (r *TagRepo) scope() string {
	if r.withDeleted {
		return ""
	}

	return " AND deleted_at IS NULL"
}

// Create inserts the tag. Titles are unique per organization among active
// tags; a collision surfaces as ErrDuplicate.
func (r *TagRepo) Create(ctx context.Context, tag *projects.Tag) error {
	if err := tag.Validate(); err != nil {
		return err
	}

	return r.store.RunInTransaction(ctx, func(ctx context.Context) error {
		entity.StampCreate(ctx, &tag.Base)

		args := append(baseArgs(&tag.Base),
			tag.OrganizationID.String(), tag.Title, tag.Definition,
		)

		_, err := r.store.conn(ctx).ExecContext(ctx,
			"INSERT INTO tags ("+tagColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			args...,
		)
		if err != nil {
			return fmt.Errorf("store: create tag: %w", mapConstraintError(err))
		}

		return nil
	})
}

// Get returns the tag by id within the repository's scope.
func (r *TagRepo) Get(ctx context.Context, id uuid.UUID) (*projects.Tag, error) {
	row := r.store.conn(ctx).QueryRowContext(ctx,
		"SELECT "+tagColumns+" FROM tags WHERE id = ?"+r.scope(),
		id.String(),
	)

	return scanTag(row)
}

// ListByOrganization returns the organization's tags within the
// repository's scope, ordered by title.
func (r *TagRepo) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*projects.Tag, error) {
	rows, err := r.store.conn(ctx).QueryContext(ctx,
		"SELECT "+tagColumns+" FROM tags WHERE organization_id = ?"+r.scope()+" ORDER BY title",
		orgID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("store: list tags: %w", err)
	}
	defer rows.Close()

	var out []*projects.Tag

	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, tag)
	}

	return out, rows.Err()
}

// Update persists the mutable fields of an active tag. Creation audit
// fields and the owning organization must be untouched.
func (r *TagRepo) Update(ctx context.Context, tag *projects.Tag) error {
	if err := tag.Validate(); err != nil {
		return err
	}

	return r.store.RunInTransaction(ctx, func(ctx context.Context) error {
		stored, err := r.store.loadBase(ctx, tagsTable, tag.ID, true)
		if err != nil {
			return err
		}

		if err := verifyImmutable(&stored, &tag.Base); err != nil {
			return err
		}

		entity.StampUpdate(ctx, &tag.Base)

		_, err = r.store.conn(ctx).ExecContext(ctx,
			`UPDATE tags
			 SET title = ?, definition = ?, updated_at = ?, updated_by = ?
			 WHERE id = ? AND deleted_at IS NULL`,
			tag.Title, tag.Definition,
			encodeTime(tag.UpdatedAt), encodeUUIDRef(tag.UpdatedBy), tag.ID.String(),
		)
		if err != nil {
			return fmt.Errorf("store: update tag: %w", mapConstraintError(err))
		}

		return nil
	})
}

// SoftDelete marks the tag deleted, freeing its title for reuse in the
// organization.
func (r *TagRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.store.softDeleteRow(ctx, tagsTable, id)
}

// Restore clears a previous soft delete. Fails with ErrDuplicate when the
// title has since been taken by another active tag in the organization.
func (r *TagRepo) Restore(ctx context.Context, id uuid.UUID) error {
	return r.store.restoreRow(ctx, tagsTable, id)
}

// HardDelete physically removes the tag row.
func (r *TagRepo) HardDelete(ctx context.Context, id uuid.UUID) error {
	return r.store.hardDeleteRow(ctx, tagsTable, id)
}

func scanTag(row rowScanner) (*projects.Tag, error) {
	var (
		base  baseRow
		tag   projects.Tag
		orgID string
	)

	dest := append(base.fields(), &orgID, &tag.Title, &tag.Definition)

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("store: scan tag: %w", err)
	}

	if err := base.decode(&tag.Base); err != nil {
		return nil, err
	}

	var err error

	if tag.OrganizationID, err = uuid.Parse(orgID); err != nil {
		return nil, fmt.Errorf("store: decode organization_id %q: %w", orgID, err)
	}

	return &tag, nil
}
