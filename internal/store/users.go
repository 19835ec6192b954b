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

const usersTable = "users"

const userColumns = baseColumns + ", email, full_name, is_active, language, timezone, last_login_ip"

// UserRepo persists users. The zero scope sees active rows only; All()
// widens it to include soft-deleted rows.
type UserRepo struct {
	store       *Store
	withDeleted bool
}

// All returns a repository view that includes soft-deleted users.
func (r *UserRepo) All() *UserRepo {
	return &UserRepo{store: r.store, withDeleted: true}
}

func (r *UserRepo) scope() string {
	if r.withDeleted {
		return ""
	}

	return " AND deleted_at IS NULL"
}

// Create inserts the user. The email is normalized before storage and must
// be unique among active users, case-insensitively.
func (r *UserRepo) Create(ctx context.Context, user *orgs.User) error {
	user.Email = orgs.NormalizeEmail(user.Email)
	if user.Email == "" {
		return fmt.Errorf("store: create user: email is required")
	}

	return r.store.RunInTransaction(ctx, func(ctx context.Context) error {
		entity.StampCreate(ctx, &user.Base)

		args := append(baseArgs(&user.Base),
			user.Email, user.FullName, user.IsActive, user.Language, user.Timezone, user.LastLoginIP,
		)

		_, err := r.store.conn(ctx).ExecContext(ctx,
			"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			args...,
		)
		if err != nil {
			return fmt.Errorf("store: create user: %w", mapConstraintError(err))
		}

		return nil
	})
}

// Get returns the user by id within the repository's scope.
func (r *UserRepo) Get(ctx context.Context, id uuid.UUID) (*orgs.User, error) {
	row := r.store.conn(ctx).QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?"+r.scope(),
		id.String(),
	)

	return scanUser(row)
}

// GetByEmail looks the user up by email, case-insensitively, within the
// repository's scope.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*orgs.User, error) {
	row := r.store.conn(ctx).QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE lower(email) = ?"+r.scope(),
		orgs.NormalizeEmail(email),
	)

	return scanUser(row)
}

// List returns users within the repository's scope, newest first.
func (r *UserRepo) List(ctx context.Context) ([]*orgs.User, error) {
	rows, err := r.store.conn(ctx).QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE 1 = 1"+r.scope()+" ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("store: list users: %w", err)
	}
	defer rows.Close()

	var out []*orgs.User

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, user)
	}

	return out, rows.Err()
}

// Update persists the mutable fields of an active user. Creation audit
// fields must be untouched.
func (r *UserRepo) Update(ctx context.Context, user *orgs.User) error {
	user.Email = orgs.NormalizeEmail(user.Email)

	return r.store.RunInTransaction(ctx, func(ctx context.Context) error {
		stored, err := r.store.loadBase(ctx, usersTable, user.ID, true)
		if err != nil {
			return err
		}

		if err := verifyImmutable(&stored, &user.Base); err != nil {
			return err
		}

		entity.StampUpdate(ctx, &user.Base)

		_, err = r.store.conn(ctx).ExecContext(ctx,
			`UPDATE users
			 SET email = ?, full_name = ?, is_active = ?, language = ?, timezone = ?, last_login_ip = ?,
			     updated_at = ?, updated_by = ?
			 WHERE id = ? AND deleted_at IS NULL`,
			user.Email, user.FullName, user.IsActive, user.Language, user.Timezone, user.LastLoginIP,
			encodeTime(user.UpdatedAt), encodeUUIDRef(user.UpdatedBy), user.ID.String(),
		)
		if err != nil {
			return fmt.Errorf("store: update user: %w", mapConstraintError(err))
		}

		return nil
	})
}

// RecordLogin stamps the user's last login address.
func (r *UserRepo) RecordLogin(ctx context.Context, id uuid.UUID, ip string) error {
	return r.store.RunInTransaction(ctx, func(ctx context.Context) error {
		base, err := r.store.loadBase(ctx, usersTable, id, true)
		if err != nil {
			return err
		}

		entity.StampUpdate(ctx, &base)

		_, err = r.store.conn(ctx).ExecContext(ctx,
			"UPDATE users SET last_login_ip = ?, updated_at = ?, updated_by = ? WHERE id = ? AND deleted_at IS NULL",
			ip, encodeTime(base.UpdatedAt), encodeUUIDRef(base.UpdatedBy), id.String(),
		)
		if err != nil {
			return fmt.Errorf("store: record login: %w", err)
		}

		return nil
	})
}

// SoftDelete marks the user deleted. A freed email may be reused by a new
// active user.
func (r *UserRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.store.softDeleteRow(ctx, usersTable, id)
}

// Restore clears a previous soft delete. Fails with ErrEmailExists when the
// email has since been taken by another active user.
func (r *UserRepo) Restore(ctx context.Context, id uuid.UUID) error {
	return r.store.restoreRow(ctx, usersTable, id)
}

// HardDelete physically removes the user row.
func (r *UserRepo) HardDelete(ctx context.Context, id uuid.UUID) error {
	return r.store.hardDeleteRow(ctx, usersTable, id)
}

func scanUser(row rowScanner) (*orgs.User, error) {
	var (
		base baseRow
		user orgs.User
	)

	dest := append(base.fields(),
		&user.Email, &user.FullName, &user.IsActive, &user.Language, &user.Timezone, &user.LastLoginIP,
	)

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("store: scan user: %w", err)
	}

	if err := base.decode(&user.Base); err != nil {
		return nil, err
	}

	return &user, nil
}
