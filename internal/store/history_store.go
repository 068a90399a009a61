package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/nhle/todolist/internal/model"
)

const insertHistoryEvent = `INSERT INTO todo_history (item_id, change_date, event_id) VALUES (?, ?, ?)`

// RecordEvent appends a history event for itemID. The history table is
// append-only and does not require itemID to exist.
func (r *TodoRepo) RecordEvent(ctx context.Context, itemID int64, code model.EventCode) error {
	return r.recordEvents(ctx, []int64{itemID}, code)
}

// recordEvents appends the same event for each item in one batch.
func (r *TodoRepo) recordEvents(ctx context.Context, itemIDs []int64, code model.EventCode) error {
	if !code.Valid() {
		return fmt.Errorf("recording %s: %w", code, ErrInvalid)
	}

	now := r.now()
	tuples := make([][]any, len(itemIDs))
	for i, id := range itemIDs {
		tuples[i] = []any{id, now, int(code)}
	}

	if _, err := r.db.Exec(ctx, insertHistoryEvent, tuples...); err != nil {
		return fmt.Errorf("recording %s event: %w", code, err)
	}
	return nil
}

// History returns every event recorded for itemID, oldest first.
func (r *TodoRepo) History(ctx context.Context, itemID int64) ([]model.HistoryEvent, error) {
	var events []model.HistoryEvent
	err := r.db.Select(ctx, &events, builder.Select("item_id", "change_date", "event_id").
		From("todo_history").
		Where(sq.Eq{"item_id": itemID}).
		OrderBy("change_date", "id"))
	if err != nil {
		return nil, fmt.Errorf("querying history for todo %d: %w", itemID, err)
	}
	return events, nil
}

// LastModified returns the time of the most recent event for itemID.
// ok is false when the item has no history.
func (r *TodoRepo) LastModified(ctx context.Context, itemID int64) (time.Time, bool, error) {
	var changed time.Time
	ok, err := r.db.Get(ctx, &changed, builder.Select("change_date").
		From("todo_history").
		Where(sq.Eq{"item_id": itemID}).
		OrderBy("change_date DESC", "id DESC").
		Limit(1))
	if err != nil {
		return time.Time{}, false, fmt.Errorf("querying last change of todo %d: %w", itemID, err)
	}
	return changed, ok, nil
}
