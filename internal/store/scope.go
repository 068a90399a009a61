package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Scope is a request-scoped database handle. The connection is taken
// from the pool on the first statement and returned by Close, so a
// request that never touches the store never holds a connection.
//
// A Scope is meant for one request goroutine and is not safe for
// concurrent use.
type Scope struct {
	ID     uuid.UUID
	store  *SQLiteStore
	conn   *sqlx.Conn
	closed bool
}

func newScope(s *SQLiteStore) *Scope {
	return &Scope{ID: uuid.New(), store: s}
}

// Acquire returns the scope's connection, opening it on first use.
func (sc *Scope) Acquire(ctx context.Context) (Queryer, error) {
	if sc.closed {
		return nil, ErrScopeClosed
	}
	if sc.conn == nil {
		conn, err := sc.store.db.Connx(ctx)
		if err != nil {
			return nil, fmt.Errorf("acquiring connection: %w", err)
		}
		sc.conn = conn
		sc.store.log.DebugContext(ctx, "scope acquired connection", "scope", sc.ID.String())
	}
	return sc.conn, nil
}

// Acquired reports whether a connection is currently held.
func (sc *Scope) Acquired() bool {
	return sc.conn != nil
}

// Close releases the connection, if one was acquired. It is safe to
// call more than once.
func (sc *Scope) Close() error {
	sc.closed = true
	if sc.conn == nil {
		return nil
	}
	err := sc.conn.Close()
	sc.conn = nil
	sc.store.log.Debug("scope released connection", "scope", sc.ID.String())
	if err != nil {
		return fmt.Errorf("releasing connection: %w", err)
	}
	return nil
}

// Todos returns a todo repository bound to this scope.
func (sc *Scope) Todos() *TodoRepo {
	return NewTodoRepo(newAccess(sc, sc.store.log, sc.ID.String()))
}

// Users returns a user repository bound to this scope.
func (sc *Scope) Users() *UserRepo {
	return NewUserRepo(newAccess(sc, sc.store.log, sc.ID.String()), sc.Todos(), sc.store.scheme)
}
