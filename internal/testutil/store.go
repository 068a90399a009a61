package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/nhle/todolist/internal/model"
	"github.com/nhle/todolist/internal/store"
)

// NewTestStore creates a SQLiteStore in a temporary file with all
// migrations applied. It automatically closes the store when the test
// completes.
func NewTestStore(t *testing.T, opts ...store.Option) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "todo.db"), opts...)
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// MustCreateUser saves a new user and returns it as read back from the
// store.
func MustCreateUser(t *testing.T, s *store.SQLiteStore, name, password, email string) model.User {
	t.Helper()

	ctx := context.Background()
	users := s.Users()
	id, err := users.Save(ctx, model.NewUser(name, password, email))
	if err != nil {
		t.Fatalf("saving user %q: %v", name, err)
	}
	u, ok, err := users.GetByID(ctx, id)
	if err != nil || !ok {
		t.Fatalf("reloading user %d: ok=%v err=%v", id, ok, err)
	}
	return u
}

// MustCreateTodo saves a new todo and returns it as read back from the
// store.
func MustCreateTodo(t *testing.T, s *store.SQLiteStore, todo model.Todo) model.Todo {
	t.Helper()

	ctx := context.Background()
	todos := s.Todos()
	id, err := todos.Save(ctx, todo)
	if err != nil {
		t.Fatalf("saving todo %q: %v", todo.Name, err)
	}
	got, ok, err := todos.GetByID(ctx, id)
	if err != nil || !ok {
		t.Fatalf("reloading todo %d: ok=%v err=%v", id, ok, err)
	}
	return got
}

// MustArchiveTodo archives a saved todo the way callers do: persist the
// flag, then record the archive event.
func MustArchiveTodo(t *testing.T, s *store.SQLiteStore, todo model.Todo) model.Todo {
	t.Helper()

	ctx := context.Background()
	todos := s.Todos()
	todo.Archive()
	if _, err := todos.Save(ctx, todo); err != nil {
		t.Fatalf("archiving todo %d: %v", todo.ID, err)
	}
	if err := todos.RecordEvent(ctx, todo.ID, model.EventArchive); err != nil {
		t.Fatalf("recording archive of todo %d: %v", todo.ID, err)
	}
	return todo
}

// NewUnmanagedTestStore is NewTestStore without the automatic Close, for
// tests that exercise closing themselves.
func NewUnmanagedTestStore(t *testing.T, opts ...store.Option) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "todo.db"), opts...)
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}
	return s
}
