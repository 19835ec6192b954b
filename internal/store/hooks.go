package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hearthsoft/orgcore/internal/entity"
)

// The lifecycle hooks shared by every repository. Create, update, soft
// delete, and restore all stamp through internal/entity inside the write's
// transaction; an aborted transaction reverts the row and its audit state
// together.

// loadBase reads the audit columns of one row. activeOnly restricts the
// lookup to the active scope.
func (s *Store) loadBase(ctx context.Context, table string, id uuid.UUID, activeOnly bool) (entity.Base, error) {
	query := "SELECT " + baseColumns + " FROM " + table + " WHERE id = ?"
	if activeOnly {
		query += " AND deleted_at IS NULL"
	}

	var (
		row  baseRow
		base entity.Base
	)

	err := s.conn(ctx).QueryRowContext(ctx, query, id.String()).Scan(row.fields()...)
	if errors.Is(err, sql.ErrNoRows) {
		return base, ErrNotFound
	}

	if err != nil {
		return base, fmt.Errorf("store: load %s: %w", table, err)
	}

	if err := row.decode(&base); err != nil {
		return base, err
	}

	return base, nil
}

// verifyImmutable rejects writes that try to change creation-time audit
// fields. Callers that never touch them pass trivially.
func verifyImmutable(stored, incoming *entity.Base) error {
	if !incoming.CreatedAt.Equal(stored.CreatedAt) {
		return fmt.Errorf("%w: created_at", ErrImmutableField)
	}

	if !uuidRefEqual(incoming.CreatedBy, stored.CreatedBy) {
		return fmt.Errorf("%w: created_by", ErrImmutableField)
	}

	return nil
}

func uuidRefEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return *a == *b
}

// softDeleteRow redirects deletion into the soft path: sets deleted_at and
// stamps updated_at/updated_by like any other write. Physical removal only
// happens through the explicitly named hard-delete operations.
func (s *Store) softDeleteRow(ctx context.Context, table string, id uuid.UUID) error {
	return s.RunInTransaction(ctx, func(ctx context.Context) error {
		base, err := s.loadBase(ctx, table, id, true)
		if err != nil {
			return err
		}

		entity.StampSoftDelete(ctx, &base)

		_, err = s.conn(ctx).ExecContext(ctx,
			"UPDATE "+table+" SET deleted_at = ?, updated_at = ?, updated_by = ? WHERE id = ?",
			encodeTimeRef(base.DeletedAt), encodeTime(base.UpdatedAt), encodeUUIDRef(base.UpdatedBy), id.String(),
		)
		if err != nil {
			return fmt.Errorf("store: soft delete %s: %w", table, err)
		}

		return nil
	})
}

// restoreRow clears deleted_at through the update path.
func (s *Store) restoreRow(ctx context.Context, table string, id uuid.UUID) error {
	return s.RunInTransaction(ctx, func(ctx context.Context) error {
		base, err := s.loadBase(ctx, table, id, false)
		if err != nil {
			return err
		}

		if !base.IsDeleted() {
			return nil
		}

		entity.StampRestore(ctx, &base)

		_, err = s.conn(ctx).ExecContext(ctx,
			"UPDATE "+table+" SET deleted_at = NULL, updated_at = ?, updated_by = ? WHERE id = ?",
			encodeTime(base.UpdatedAt), encodeUUIDRef(base.UpdatedBy), id.String(),
		)
		if err != nil {
			if mapped := mapConstraintError(err); mapped != err {
				return mapped
			}

			return fmt.Errorf("store: restore %s: %w", table, err)
		}

		return nil
	})
}

// hardDeleteRow physically removes a row. Administrative use only; the
// standard delete path is softDeleteRow.
func (s *Store) hardDeleteRow(ctx context.Context, table string, id uuid.UUID) error {
	result, err := s.conn(ctx).ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("store: hard delete %s: %w", table, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
