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

const projectsTable = "projects"

const projectColumns = baseColumns + ", organization_id, title, description, status, start_date, end_date"

// ProjectRepo persists projects. The zero scope sees active rows only;
// All() widens it to include soft-deleted rows.
type ProjectRepo struct {
	store       *Store
	withDeleted bool
}

// All returns a repository view that includes soft-deleted projects.
func (r *ProjectRepo) All() *ProjectRepo {
	return &ProjectRepo{store: r.store, withDeleted: true}
}

func (r *ProjectRepo) scope() string {
	if r.withDeleted {
		return ""
	}

	return " AND deleted_at IS NULL"
}

// Create inserts the project after validating its date range.
func (r *ProjectRepo) Create(ctx context.Context, p *projects.Project) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if p.Status == "" {
		p.Status = projects.StatusNotStarted
	}

	return r.store.RunInTransaction(ctx, func(ctx context.Context) error {
		entity.StampCreate(ctx, &p.Base)

		args := append(baseArgs(&p.Base),
			p.OrganizationID.String(), p.Title, p.Description, string(p.Status),
			encodeTimeRef(p.StartDate), encodeTimeRef(p.EndDate),
		)

		_, err := r.store.conn(ctx).ExecContext(ctx,
			"INSERT INTO projects ("+projectColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			args...,
		)
		if err != nil {
			return fmt.Errorf("store: create project: %w", mapConstraintError(err))
		}

		return nil
	})
}

// Get returns the project by id within the repository's scope.
func (r *ProjectRepo) Get(ctx context.Context, id uuid.UUID) (*projects.Project, error) {
	row := r.store.conn(ctx).QueryRowContext(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE id = ?"+r.scope(),
		id.String(),
	)

	return scanProject(row)
}

// ListByOrganization returns the organization's projects within the
// repository's scope, newest first.
func (r *ProjectRepo) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*projects.Project, error) {
	rows, err := r.store.conn(ctx).QueryContext(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE organization_id = ?"+r.scope()+" ORDER BY created_at DESC",
		orgID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("store: list projects: %w", err)
	}
	defer rows.Close()

	var out []*projects.Project

	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, p)
	}

	return out, rows.Err()
}

// CountActive returns the number of active projects in the organization,
// as counted against plan limits.
func (r *ProjectRepo) CountActive(ctx context.Context, orgID uuid.UUID) (int, error) {
	var count int

	err := r.store.conn(ctx).QueryRowContext(ctx,
		"SELECT count(*) FROM projects WHERE organization_id = ? AND deleted_at IS NULL",
		orgID.String(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("store: count projects: %w", err)
	}

	return count, nil
}

// Update persists the mutable fields of an active project. Creation audit
// fields and the owning organization must be untouched.
func (r *ProjectRepo) Update(ctx context.Context, p *projects.Project) error {
	if err := p.Validate(); err != nil {
		return err
	}

	return r.store.RunInTransaction(ctx, func(ctx context.Context) error {
		stored, err := r.store.loadBase(ctx, projectsTable, p.ID, true)
		if err != nil {
			return err
		}

		if err := verifyImmutable(&stored, &p.Base); err != nil {
			return err
		}

		entity.StampUpdate(ctx, &p.Base)

		_, err = r.store.conn(ctx).ExecContext(ctx,
			`UPDATE projects
			 SET title = ?, description = ?, status = ?, start_date = ?, end_date = ?,
			     updated_at = ?, updated_by = ?
			 WHERE id = ? AND deleted_at IS NULL`,
			p.Title, p.Description, string(p.Status),
			encodeTimeRef(p.StartDate), encodeTimeRef(p.EndDate),
			encodeTime(p.UpdatedAt), encodeUUIDRef(p.UpdatedBy), p.ID.String(),
		)
		if err != nil {
			return fmt.Errorf("store: update project: %w", err)
		}

		return nil
	})
}

// SoftDelete marks the project deleted.
func (r *ProjectRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.store.softDeleteRow(ctx, projectsTable, id)
}

// Restore clears a previous soft delete.
func (r *ProjectRepo) Restore(ctx context.Context, id uuid.UUID) error {
	return r.store.restoreRow(ctx, projectsTable, id)
}

// HardDelete physically removes the project row.
func (r *ProjectRepo) HardDelete(ctx context.Context, id uuid.UUID) error {
	return r.store.hardDeleteRow(ctx, projectsTable, id)
}

func scanProject(row rowScanner) (*projects.Project, error) {
	var (
		base   baseRow
		p      projects.Project
		orgID  string
		status string
		start  sql.NullString
		end    sql.NullString
	)

	dest := append(base.fields(), &orgID, &p.Title, &p.Description, &status, &start, &end)

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("store: scan project: %w", err)
	}

	if err := base.decode(&p.Base); err != nil {
		return nil, err
	}

	var err error

	if p.OrganizationID, err = uuid.Parse(orgID); err != nil {
		return nil, fmt.Errorf("store: decode organization_id %q: %w", orgID, err)
	}

	p.Status = projects.Status(status)

	if p.StartDate, err = decodeTimeRef(start); err != nil {
		return nil, err
	}

	if p.EndDate, err = decodeTimeRef(end); err != nil {
		return nil, err
	}

	return &p, nil
}
