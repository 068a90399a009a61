package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/nhle/todolist/internal/model"
)

var (
	// ErrNotFound is returned when an update or delete matches no row.
	// Lookups report absence with a false ok value instead.
	ErrNotFound = errors.New("not found")

	// ErrNotPersisted is returned when an operation needs an entity ID
	// but the entity was never saved.
	ErrNotPersisted = errors.New("entity has no id")

	// ErrInvalid is returned when an entity fails validation before
	// reaching the database.
	ErrInvalid = errors.New("invalid entity")

	// ErrConflict wraps a unique constraint violation reported by SQLite.
	// Callers that want a friendly message should pre-check with
	// UserRepo.HasUserWithName and HasUserWithEmail.
	ErrConflict = errors.New("unique constraint violated")

	// ErrBadPassword is returned by Authenticate when the user exists but
	// the password does not match.
	ErrBadPassword = errors.New("wrong password")

	// ErrScopeClosed is returned when a closed Scope is used again.
	ErrScopeClosed = errors.New("scope closed")
)

// Queryer is the subset of *sqlx.DB, *sqlx.Conn and *sqlx.Tx the
// repositories run statements on.
type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error)
	QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row
}

// Handle yields the Queryer a statement should run on.
type Handle interface {
	Acquire(ctx context.Context) (Queryer, error)
}

// TodoStore defines todo persistence and history operations.
type TodoStore interface {
	Save(ctx context.Context, todo model.Todo) (int64, error)
	Toggle(ctx context.Context, todo *model.Todo) error
	Delete(ctx context.Context, todo model.Todo) error
	GetAll(ctx context.Context, ownerID int64, archived bool) ([]model.Todo, error)
	GetByID(ctx context.Context, id int64) (model.Todo, bool, error)
	DeleteByOwner(ctx context.Context, ownerID int64) (int64, error)
	List(ctx context.Context, ownerID int64) (*model.TodoList, error)

	RecordEvent(ctx context.Context, itemID int64, code model.EventCode) error
	History(ctx context.Context, itemID int64) ([]model.HistoryEvent, error)
	LastModified(ctx context.Context, itemID int64) (time.Time, bool, error)
}

// UserStore defines account persistence, lookups, and derived counts.
type UserStore interface {
	Save(ctx context.Context, user model.User) (int64, error)
	SetPassword(ctx context.Context, userID int64, password string) error
	Delete(ctx context.Context, user model.User) error
	GetByID(ctx context.Context, id int64) (model.User, bool, error)
	GetByName(ctx context.Context, name string) (model.User, bool, error)
	GetByEmail(ctx context.Context, email string) (model.User, bool, error)
	List(ctx context.Context) ([]model.User, error)
	HasUserWithName(ctx context.Context, name string) (bool, error)
	HasUserWithEmail(ctx context.Context, email string) (bool, error)
	Authenticate(ctx context.Context, login, password string) (model.User, error)

	IsAdmin(ctx context.Context, userID int64) (bool, error)
	SetAdmin(ctx context.Context, userID int64, wantsAdmin bool) error

	ActiveTodosCount(ctx context.Context, userID int64) (int, error)
	ActiveTodosDoneCount(ctx context.Context, userID int64) (int, error)
	ActiveTodosUndoneCount(ctx context.Context, userID int64) (int, error)
	ArchivedTodosCount(ctx context.Context, userID int64) (int, error)
	Stats(ctx context.Context, userID int64) (model.TodoStats, error)
}

var (
	_ TodoStore = (*TodoRepo)(nil)
	_ UserStore = (*UserRepo)(nil)
	_ Handle    = (*SQLiteStore)(nil)
	_ Handle    = (*Scope)(nil)
)

// isUniqueViolation reports whether err is SQLite rejecting a duplicate
// value in a UNIQUE column.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	code := se.Code()
	if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
		return true
	}
	return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE")
}
