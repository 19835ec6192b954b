// Package entity defines the audit and soft-delete base embedded by every
// persisted record, plus the stamping hooks the storage layer runs on each
// write. The hooks read the acting principal from the context, so audit
// attribution needs no per-entity code.
package entity

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hearthsoft/orgcore/internal/authz"
	"github.com/hearthsoft/orgcore/internal/pkg/xtime"
)

// Base carries the identity, audit trail, and soft-delete state shared by
// all persisted records.
//
// CreatedAt/CreatedBy are set exactly once, at creation, and never change.
// UpdatedAt/UpdatedBy change on every write where the stamping hooks run.
// DeletedAt is set only by the soft-delete hook, never by field updates.
type Base struct {
	ID        uuid.UUID  `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	CreatedBy *uuid.UUID `json:"created_by"`
	UpdatedBy *uuid.UUID `json:"updated_by"`
	DeletedAt *time.Time `json:"deleted_at"`
}

// IsDeleted reports whether the record has been soft deleted.
func (b *Base) IsDeleted() bool {
	return b.DeletedAt != nil
}

// StampCreate initializes the audit fields for a new record: both
// timestamps to now, both actor refs to the context principal (nil when no
// user principal is in context).
func StampCreate(ctx context.Context, b *Base) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}

	now := xtime.UTCNow()
	b.CreatedAt = now
	b.UpdatedAt = now

	actor := authz.ActorID(ctx)
	b.CreatedBy = actor
	b.UpdatedBy = cloneRef(actor)
}

// StampUpdate stamps an ordinary (non-delete) write. Creation fields are
// untouched; the storage layer rejects attempts to alter them.
func StampUpdate(ctx context.Context, b *Base) {
	b.UpdatedAt = xtime.UTCNow()
	b.UpdatedBy = authz.ActorID(ctx)
}

// StampSoftDelete marks the record deleted and stamps it like an update.
func StampSoftDelete(ctx context.Context, b *Base) {
	now := xtime.UTCNow()
	b.DeletedAt = &now
	b.UpdatedAt = now
	b.UpdatedBy = authz.ActorID(ctx)
}

// StampRestore clears the soft-delete mark through the update path.
func StampRestore(ctx context.Context, b *Base) {
	b.DeletedAt = nil
	StampUpdate(ctx, b)
}

func cloneRef(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}

	clone := *id

	return &clone
}
