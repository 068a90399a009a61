package store

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/todolist/internal/credential"
)

// SQLiteStore owns the connection pool for a local SQLite database and
// hands out repositories bound either to the pool or to a request Scope.
type SQLiteStore struct {
	db     *sqlx.DB
	log    *slog.Logger
	scheme credential.Scheme
}

// Option customizes a SQLiteStore.
type Option func(*SQLiteStore)

// WithLogger sets the logger used for statement tracing.
func WithLogger(l *slog.Logger) Option {
	return func(s *SQLiteStore) {
		if l != nil {
			s.log = l
		}
	}
}

// WithPasswordScheme sets how user passwords are stored and verified.
// The default is credential.Plain.
func WithPasswordScheme(scheme credential.Scheme) Option {
	return func(s *SQLiteStore) {
		if scheme != nil {
			s.scheme = scheme
		}
	}
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string, opts ...Option) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Every connection to ":memory:" is a separate database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		scheme: credential.Plain{},
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Acquire returns the pool itself. Statements run on whichever pooled
// connection is free.
func (s *SQLiteStore) Acquire(context.Context) (Queryer, error) {
	return s.db, nil
}

// Scope starts a request-scoped handle. The caller must Close it.
func (s *SQLiteStore) Scope() *Scope {
	return newScope(s)
}

// Todos returns a todo repository running on the pool.
func (s *SQLiteStore) Todos() *TodoRepo {
	return NewTodoRepo(newAccess(s, s.log, "pool"))
}

// Users returns a user repository running on the pool.
func (s *SQLiteStore) Users() *UserRepo {
	return NewUserRepo(newAccess(s, s.log, "pool"), s.Todos(), s.scheme)
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
		s.log.Debug("applied migration", "version", m.version)
	}

	return nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
