package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// builder produces parameterized statements with "?" placeholders.
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// Access executes parameterized statements on a Handle. It never
// translates driver errors and every write commits on its own.
type Access struct {
	h     Handle
	log   *slog.Logger
	scope string
}

func newAccess(h Handle, log *slog.Logger, scope string) Access {
	return Access{h: h, log: log, scope: scope}
}

// Insert runs an INSERT and returns the generated row ID.
func (a Access) Insert(ctx context.Context, b sq.InsertBuilder) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("building insert: %w", err)
	}

	q, err := a.h.Acquire(ctx)
	if err != nil {
		return 0, err
	}

	a.trace(ctx, "insert", query)
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading inserted id: %w", err)
	}
	return id, nil
}

// Exec runs query once per argument tuple and returns the total number
// of affected rows. With no tuples the query runs once without
// arguments. A failing tuple stops the batch; earlier tuples stay
// committed.
func (a Access) Exec(ctx context.Context, query string, tuples ...[]any) (int64, error) {
	if len(tuples) == 0 {
		tuples = [][]any{nil}
	}

	q, err := a.h.Acquire(ctx)
	if err != nil {
		return 0, err
	}

	a.trace(ctx, "exec", query, "tuples", len(tuples))
	var affected int64
	for i, args := range tuples {
		res, err := q.ExecContext(ctx, query, args...)
		if err != nil {
			if len(tuples) > 1 {
				return affected, fmt.Errorf("tuple %d: %w", i, err)
			}
			return affected, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return affected, fmt.Errorf("reading affected rows: %w", err)
		}
		affected += n
	}
	return affected, nil
}

// Update runs an UPDATE and returns the number of matched rows.
func (a Access) Update(ctx context.Context, b sq.UpdateBuilder) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("building update: %w", err)
	}
	return a.Exec(ctx, query, args)
}

// Delete runs a DELETE and returns the number of removed rows.
func (a Access) Delete(ctx context.Context, b sq.DeleteBuilder) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("building delete: %w", err)
	}
	return a.Exec(ctx, query, args)
}

// Select scans every matching row into dest, a pointer to a slice.
func (a Access) Select(ctx context.Context, dest any, b sq.SelectBuilder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("building select: %w", err)
	}

	q, err := a.h.Acquire(ctx)
	if err != nil {
		return err
	}

	a.trace(ctx, "select", query)
	return sqlx.SelectContext(ctx, q, dest, query, args...)
}

// Get scans the first matching row into dest. It reports false, not an
// error, when nothing matches.
func (a Access) Get(ctx context.Context, dest any, b sq.SelectBuilder) (bool, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return false, fmt.Errorf("building select: %w", err)
	}

	q, err := a.h.Acquire(ctx)
	if err != nil {
		return false, err
	}

	a.trace(ctx, "get", query)
	err = sqlx.GetContext(ctx, q, dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Count runs a COUNT(*) select.
func (a Access) Count(ctx context.Context, b sq.SelectBuilder) (int, error) {
	var n int
	if _, err := a.Get(ctx, &n, b); err != nil {
		return 0, err
	}
	return n, nil
}

func (a Access) trace(ctx context.Context, op, query string, attrs ...any) {
	a.log.DebugContext(ctx, "store "+op,
		append([]any{"scope", a.scope, "query", query}, attrs...)...)
}
