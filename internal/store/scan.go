package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hearthsoft/orgcore/internal/entity"
)

// Timestamps are stored as RFC3339Nano text and UUIDs as their canonical
// text form, keeping the schema portable and the driver surface minimal.

const baseColumns = "id, created_at, updated_at, created_by, updated_by, deleted_at"

func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func encodeTimeRef(t *time.Time) any {
	if t == nil {
		return nil
	}

	return encodeTime(*t)
}

func encodeUUIDRef(id *uuid.UUID) any {
	if id == nil {
		return nil
	}

	return id.String()
}

func decodeTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("store: decode time %q: %w", s, err)
	}

	return t.UTC(), nil
}

// baseRow receives the audit columns of one row before decoding.
type baseRow struct {
	id        string
	createdAt string
	updatedAt string
	createdBy sql.NullString
	updatedBy sql.NullString
	deletedAt sql.NullString
}

// fields returns the scan destinations in baseColumns order.
func (r *baseRow) fields() []any {
	return []any{&r.id, &r.createdAt, &r.updatedAt, &r.createdBy, &r.updatedBy, &r.deletedAt}
}

func (r *baseRow) decode(b *entity.Base) error {
	id, err := uuid.Parse(r.id)
	if err != nil {
		return fmt.Errorf("store: decode id %q: %w", r.id, err)
	}

	b.ID = id

	if b.CreatedAt, err = decodeTime(r.createdAt); err != nil {
		return err
	}

	if b.UpdatedAt, err = decodeTime(r.updatedAt); err != nil {
		return err
	}

	if b.CreatedBy, err = decodeUUIDRef(r.createdBy); err != nil {
		return err
	}

	if b.UpdatedBy, err = decodeUUIDRef(r.updatedBy); err != nil {
		return err
	}

	if r.deletedAt.Valid {
		t, err := decodeTime(r.deletedAt.String)
		if err != nil {
			return err
		}

		b.DeletedAt = &t
	} else {
		b.DeletedAt = nil
	}

	return nil
}

func decodeTimeRef(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}

	t, err := decodeTime(s.String)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func decodeUUIDRef(s sql.NullString) (*uuid.UUID, error) {
	if !s.Valid {
		return nil, nil
	}

	id, err := uuid.Parse(s.String)
	if err != nil {
		return nil, fmt.Errorf("store: decode uuid %q: %w", s.String, err)
	}

	return &id, nil
}

// baseArgs returns the insert arguments in baseColumns order.
func baseArgs(b *entity.Base) []any {
	return []any{
		b.ID.String(),
		encodeTime(b.CreatedAt),
		encodeTime(b.UpdatedAt),
		encodeUUIDRef(b.CreatedBy),
		encodeUUIDRef(b.UpdatedBy),
		encodeTimeRef(b.DeletedAt),
	}
}
