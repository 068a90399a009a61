package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/nhle/todolist/internal/model"
)

// ActiveTodosCount counts the user's todos that are not archived.
func (r *UserRepo) ActiveTodosCount(ctx context.Context, userID int64) (int, error) {
	return r.countTodos(ctx, sq.Eq{"owner_id": userID, "is_archived": 0})
}

// ActiveTodosDoneCount counts the user's active todos marked done.
func (r *UserRepo) ActiveTodosDoneCount(ctx context.Context, userID int64) (int, error) {
	return r.countTodos(ctx, sq.Eq{
		"owner_id":    userID,
		"is_archived": 0,
		"status":      model.TodoStatusDone,
	})
}

// ActiveTodosUndoneCount counts the user's active todos still undone.
func (r *UserRepo) ActiveTodosUndoneCount(ctx context.Context, userID int64) (int, error) {
	return r.countTodos(ctx, sq.Eq{
		"owner_id":    userID,
		"is_archived": 0,
		"status":      model.TodoStatusUndone,
	})
}

// ArchivedTodosCount counts the user's archived todos.
func (r *UserRepo) ArchivedTodosCount(ctx context.Context, userID int64) (int, error) {
	return r.countTodos(ctx, sq.Eq{"owner_id": userID, "is_archived": 1})
}

// Stats computes all four counts. They are read separately, so a
// concurrent writer can make them disagree slightly.
func (r *UserRepo) Stats(ctx context.Context, userID int64) (model.TodoStats, error) {
	var (
		stats model.TodoStats
		err   error
	)
	if stats.Active, err = r.ActiveTodosCount(ctx, userID); err != nil {
		return model.TodoStats{}, err
	}
	if stats.ActiveDone, err = r.ActiveTodosDoneCount(ctx, userID); err != nil {
		return model.TodoStats{}, err
	}
	if stats.ActiveUndone, err = r.ActiveTodosUndoneCount(ctx, userID); err != nil {
		return model.TodoStats{}, err
	}
	if stats.Archived, err = r.ArchivedTodosCount(ctx, userID); err != nil {
		return model.TodoStats{}, err
	}
	return stats, nil
}

func (r *UserRepo) countTodos(ctx context.Context, where sq.Eq) (int, error) {
	n, err := r.db.Count(ctx, builder.Select("COUNT(*)").From("todo_items").Where(where))
	if err != nil {
		return 0, fmt.Errorf("counting todos: %w", err)
	}
	return n, nil
}
