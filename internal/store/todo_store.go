package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/nhle/todolist/internal/model"
)

var todoColumns = []string{
	"id", "name", "status", "create_date", "priority",
	"due_date", "owner_id", "is_archived", "description",
}

// TodoRepo persists todos and appends their history events.
type TodoRepo struct {
	db  Access
	now func() time.Time
}

// NewTodoRepo returns a repository running statements through db.
func NewTodoRepo(db Access) *TodoRepo {
	return &TodoRepo{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Save inserts a new todo or updates an existing one, and records a
// "create" or "update" event. It returns the todo's ID; for inserts this
// is the newly generated ID; the passed value is not modified. A new
// todo is always stored undone and active; Status and IsArchived are
// only written by updates.
//
// Save never records "archive" or "activate". Callers that flip
// IsArchived record those events themselves with RecordEvent.
func (r *TodoRepo) Save(ctx context.Context, todo model.Todo) (int64, error) {
	if strings.TrimSpace(todo.Name) == "" {
		return 0, fmt.Errorf("todo name must not be empty: %w", ErrInvalid)
	}

	if todo.IsPersisted() {
		if err := r.update(ctx, todo); err != nil {
			return 0, err
		}
		if err := r.RecordEvent(ctx, todo.ID, model.EventUpdate); err != nil {
			return 0, err
		}
		return todo.ID, nil
	}

	if todo.CreateDate.IsZero() {
		todo.CreateDate = r.now()
	}

	id, err := r.db.Insert(ctx, builder.Insert("todo_items").
		Columns("create_date", "priority", "due_date", "owner_id", "description", "name").
		Values(
			todo.CreateDate.UTC(), todo.Priority, todo.DueDate, todo.OwnerID,
			todo.Description, todo.Name,
		))
	if err != nil {
		return 0, fmt.Errorf("creating todo: %w", err)
	}

	if err := r.RecordEvent(ctx, id, model.EventCreate); err != nil {
		return 0, err
	}
	return id, nil
}

// update writes the mutable columns. owner_id and create_date are
// never rewritten.
func (r *TodoRepo) update(ctx context.Context, todo model.Todo) error {
	n, err := r.db.Update(ctx, builder.Update("todo_items").
		Set("name", todo.Name).
		Set("status", todo.Status).
		Set("priority", todo.Priority).
		Set("due_date", todo.DueDate).
		Set("is_archived", boolToInt(todo.IsArchived)).
		Set("description", todo.Description).
		Where(sq.Eq{"id": todo.ID}))
	if err != nil {
		return fmt.Errorf("updating todo %d: %w", todo.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("todo %d: %w", todo.ID, ErrNotFound)
	}
	return nil
}

// Toggle flips the todo between done and undone, persists it, and
// records exactly one "status done" or "status undone" event. The
// todo must already be saved. On failure the in-memory status is
// restored.
func (r *TodoRepo) Toggle(ctx context.Context, todo *model.Todo) error {
	if !todo.IsPersisted() {
		return fmt.Errorf("toggling todo: %w", ErrNotPersisted)
	}

	code := todo.Toggle()
	if err := r.update(ctx, *todo); err != nil {
		todo.Toggle()
		return err
	}
	return r.RecordEvent(ctx, todo.ID, code)
}

// Delete removes the todo and records a "remove" event.
func (r *TodoRepo) Delete(ctx context.Context, todo model.Todo) error {
	if !todo.IsPersisted() {
		return fmt.Errorf("deleting todo: %w", ErrNotPersisted)
	}

	n, err := r.db.Delete(ctx, builder.Delete("todo_items").Where(sq.Eq{"id": todo.ID}))
	if err != nil {
		return fmt.Errorf("deleting todo %d: %w", todo.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("todo %d: %w", todo.ID, ErrNotFound)
	}

	return r.RecordEvent(ctx, todo.ID, model.EventRemove)
}

// GetAll returns the owner's todos with the given archived flag,
// newest first.
func (r *TodoRepo) GetAll(
	ctx context.Context,
	ownerID int64,
	archived bool,
) ([]model.Todo, error) {
	var todos []model.Todo
	err := r.db.Select(ctx, &todos, builder.Select(todoColumns...).
		From("todo_items").
		Where(sq.Eq{"owner_id": ownerID, "is_archived": boolToInt(archived)}).
		OrderBy("create_date DESC", "id DESC"))
	if err != nil {
		return nil, fmt.Errorf("querying todos for owner %d: %w", ownerID, err)
	}
	return todos, nil
}

// GetByID returns the todo with the given ID. ok is false when no such
// todo exists.
func (r *TodoRepo) GetByID(ctx context.Context, id int64) (model.Todo, bool, error) {
	var todo model.Todo
	ok, err := r.db.Get(ctx, &todo, builder.Select(todoColumns...).
		From("todo_items").
		Where(sq.Eq{"id": id}))
	if err != nil {
		return model.Todo{}, false, fmt.Errorf("getting todo %d: %w", id, err)
	}
	return todo, ok, nil
}

// DeleteByOwner removes every todo owned by ownerID and records a
// "remove" event for each. It returns the number of todos removed.
// The statements are independent; a failure part way leaves the
// earlier ones applied.
func (r *TodoRepo) DeleteByOwner(ctx context.Context, ownerID int64) (int64, error) {
	var ids []int64
	err := r.db.Select(ctx, &ids, builder.Select("id").
		From("todo_items").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("id"))
	if err != nil {
		return 0, fmt.Errorf("listing todos for owner %d: %w", ownerID, err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	n, err := r.db.Delete(ctx, builder.Delete("todo_items").Where(sq.Eq{"owner_id": ownerID}))
	if err != nil {
		return 0, fmt.Errorf("deleting todos for owner %d: %w", ownerID, err)
	}

	if err := r.recordEvents(ctx, ids, model.EventRemove); err != nil {
		return n, err
	}
	return n, nil
}

// List loads the owner's active and archived todos into a TodoList.
func (r *TodoRepo) List(ctx context.Context, ownerID int64) (*model.TodoList, error) {
	active, err := r.GetAll(ctx, ownerID, false)
	if err != nil {
		return nil, err
	}
	archived, err := r.GetAll(ctx, ownerID, true)
	if err != nil {
		return nil, err
	}
	return model.NewTodoList(ownerID, active, archived), nil
}
