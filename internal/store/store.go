// Package store is the sqlite-backed storage layer. Every write goes
// through a repository method that runs the audit/soft-delete stamping
// hooks inside the same transaction as the write, so the invariants cannot
// be bypassed by callers on the standard path. Reads default to the active
// scope (deleted_at IS NULL applied in SQL, never post-filtered).
package store

import (
	"database/sql"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite"
)

// Config configures the sqlite store.
type Config struct {
	// Path is the database file path, or ":memory:" for tests.
	Path string `conf:"path" yaml:"path" json:"path"`
}

// Store owns the database handle and the per-entity repositories.
type Store struct {
	db *sql.DB

	Organizations *OrganizationRepo
	Users         *UserRepo
	Memberships   *MembershipRepo
	Tags          *TagRepo
	Projects      *ProjectRepo
}

// Open opens the database, applies pragmas and pending migrations, and
// builds the repositories.
func Open(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("store: path is required")
	}

	db, err := sql.Open("sqlite", buildDSN(cfg.Path))
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}

	// A single writer connection sidesteps SQLITE_BUSY under concurrent
	// writes; uniqueness is still enforced by the schema, not this.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("store: ping sqlite: %w", err)
	}

	if err := runMigrations(db); err != nil {
		_ = db.Close()

		return nil, err
	}

	return newStore(db), nil
}

func newStore(db *sql.DB) *Store {
	s := &Store{db: db}
	s.Organizations = &OrganizationRepo{store: s}
	s.Users = &UserRepo{store: s}
	s.Memberships = &MembershipRepo{store: s}
	s.Tags = &TagRepo{store: s}
	s.Projects = &ProjectRepo{store: s}

	return s
}

// buildDSN appends the pragmas every connection needs: foreign keys on,
// WAL journal, and a busy timeout instead of immediate SQLITE_BUSY.
func buildDSN(path string) string {
	params := url.Values{}
	params.Add("_pragma", "foreign_keys(1)")
	params.Add("_pragma", "journal_mode(WAL)")
	params.Add("_pragma", "busy_timeout(5000)")

	return path + "?" + params.Encode()
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for migrations and tests.
func (s *Store) DB() *sql.DB {
	return s.db
}
