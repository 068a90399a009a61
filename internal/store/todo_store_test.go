package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nhle/todolist/internal/model"
	"github.com/nhle/todolist/internal/store"
	"github.com/nhle/todolist/internal/testutil"
)

func eventCodes(events []model.HistoryEvent) []model.EventCode {
	out := make([]model.EventCode, len(events))
	for i, e := range events {
		out[i] = e.Event
	}
	return out
}

func TestTodoSaveInsertsAndReturnsID(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	owner := testutil.MustCreateUser(t, s, "alice", "pw1", "a@x.com")
	todos := s.Todos()

	due := time.Date(2030, time.June, 1, 0, 0, 0, 0, time.UTC)
	desc := "semi-skimmed"
	todo := model.NewTodo("buy milk", 2, &due, &desc, owner.ID)

	id, err := todos.Save(ctx, todo)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a generated id")
	}
	if todo.ID != 0 {
		t.Error("Save must not modify the caller's value")
	}

	got, ok, err := todos.GetByID(ctx, id)
	if err != nil || !ok {
		t.Fatalf("GetByID: ok=%v err=%v", ok, err)
	}

	want := todo
	want.ID = id
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("todo mismatch (-want +got):\n%s", diff)
	}
	if got.Status != model.TodoStatusUndone {
		t.Errorf("status = %d, want undone", got.Status)
	}

	history, err := todos.History(ctx, id)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if diff := cmp.Diff([]model.EventCode{model.EventCreate}, eventCodes(history)); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestTodoSaveInsertStartsUndoneAndActive(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	owner := testutil.MustCreateUser(t, s, "alice", "pw1", "a@x.com")
	todos := s.Todos()

	todo := model.NewTodo("preset", 1, nil, nil, owner.ID)
	todo.Status = model.TodoStatusDone
	todo.IsArchived = true

	id, err := todos.Save(ctx, todo)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, ok, err := todos.GetByID(ctx, id)
	if err != nil || !ok {
		t.Fatalf("GetByID: ok=%v err=%v", ok, err)
	}
	if got.Status != model.TodoStatusUndone || got.IsArchived {
		t.Errorf("after first save: status=%d archived=%v, want 0/false", got.Status, got.IsArchived)
	}
}

func TestTodoSaveNullableFields(t *testing.T) {
	s := testutil.NewTestStore(t)
	owner := testutil.MustCreateUser(t, s, "alice", "pw1", "a@x.com")

	got := testutil.MustCreateTodo(t, s, model.NewTodo("no extras", 0, nil, nil, owner.ID))
	if got.DueDate != nil {
		t.Errorf("due date = %v, want nil", got.DueDate)
	}
	if got.Description != nil {
		t.Errorf("description = %q, want nil", *got.Description)
	}
}

func TestTodoSaveUpdatesAndRecordsUpdate(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	owner := testutil.MustCreateUser(t, s, "alice", "pw1", "a@x.com")
	other := testutil.MustCreateUser(t, s, "bob", "pw2", "b@x.com")
	todos := s.Todos()

	todo := testutil.MustCreateTodo(t, s, model.NewTodo("draft", 3, nil, nil, owner.ID))

	desc := "final wording"
	todo.Name = "final"
	todo.Priority = 0
	todo.Description = &desc
	todo.OwnerID = other.ID

	if _, err := todos.Save(ctx, todo); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, _, err := todos.GetByID(ctx, todo.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "final" || got.Priority != 0 || got.DescriptionText() != desc {
		t.Errorf("update not persisted: %+v", got)
	}
	if got.OwnerID != owner.ID {
		t.Errorf("owner changed to %d, want %d", got.OwnerID, owner.ID)
	}

	history, err := todos.History(ctx, todo.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	want := []model.EventCode{model.EventCreate, model.EventUpdate}
	if diff := cmp.Diff(want, eventCodes(history)); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestTodoSaveErrors(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	todos := s.Todos()

	if _, err := todos.Save(ctx, model.NewTodo("  ", 1, nil, nil, 1)); !errors.Is(err, store.ErrInvalid) {
		t.Errorf("empty name: got %v, want ErrInvalid", err)
	}

	missing := model.NewTodo("ghost", 1, nil, nil, 1)
	missing.ID = 999
	if _, err := todos.Save(ctx, missing); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing row: got %v, want ErrNotFound", err)
	}
}

func TestTodoToggleIsSelfInverse(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	owner := testutil.MustCreateUser(t, s, "alice", "pw1", "a@x.com")
	todos := s.Todos()

	todo := testutil.MustCreateTodo(t, s, model.NewTodo("flip", 1, nil, nil, owner.ID))
	before, err := todos.History(ctx, todo.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}

	if err := todos.Toggle(ctx, &todo); err != nil {
		t.Fatalf("first Toggle: %v", err)
	}
	stored, _, _ := todos.GetByID(ctx, todo.ID)
	if stored.Status != model.TodoStatusDone {
		t.Errorf("stored status after one toggle = %d, want done", stored.Status)
	}

	if err := todos.Toggle(ctx, &todo); err != nil {
		t.Fatalf("second Toggle: %v", err)
	}
	stored, _, _ = todos.GetByID(ctx, todo.ID)
	if stored.Status != model.TodoStatusUndone || todo.Status != model.TodoStatusUndone {
		t.Errorf("status after two toggles: stored=%d memory=%d, want undone", stored.Status, todo.Status)
	}

	after, err := todos.History(ctx, todo.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	added := eventCodes(after[len(before):])
	want := []model.EventCode{model.EventStatusDone, model.EventStatusUndone}
	if diff := cmp.Diff(want, added); diff != "" {
		t.Errorf("appended events mismatch (-want +got):\n%s", diff)
	}
}

func TestTodoToggleRequiresSavedTodo(t *testing.T) {
	s := testutil.NewTestStore(t)
	todo := model.NewTodo("unsaved", 1, nil, nil, 1)

	err := s.Todos().Toggle(context.Background(), &todo)
	if !errors.Is(err, store.ErrNotPersisted) {
		t.Errorf("got %v, want ErrNotPersisted", err)
	}
	if todo.Status != model.TodoStatusUndone {
		t.Error("failed toggle must not change status")
	}
}

func TestTodoDeleteRecordsRemove(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	owner := testutil.MustCreateUser(t, s, "alice", "pw1", "a@x.com")
	todos := s.Todos()

	todo := testutil.MustCreateTodo(t, s, model.NewTodo("gone soon", 1, nil, nil, owner.ID))
	if err := todos.Delete(ctx, todo); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, ok, err := todos.GetByID(ctx, todo.ID); err != nil || ok {
		t.Errorf("GetByID after delete: ok=%v err=%v", ok, err)
	}

	history, err := todos.History(ctx, todo.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	want := []model.EventCode{model.EventCreate, model.EventRemove}
	if diff := cmp.Diff(want, eventCodes(history)); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}

	if err := todos.Delete(ctx, todo); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestTodoGetAllFiltersByArchivedAndOrdersNewestFirst(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	alice := testutil.MustCreateUser(t, s, "alice", "pw1", "a@x.com")
	bob := testutil.MustCreateUser(t, s, "bob", "pw2", "b@x.com")
	todos := s.Todos()

	base := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
	for i, name := range []string{"oldest", "middle", "newest"} {
		todo := model.NewTodo(name, 1, nil, nil, alice.ID)
		todo.CreateDate = base.Add(time.Duration(i) * time.Hour)
		testutil.MustCreateTodo(t, s, todo)
	}
	archived := testutil.MustCreateTodo(t, s, model.NewTodo("shelved", 1, nil, nil, alice.ID))
	testutil.MustArchiveTodo(t, s, archived)
	testutil.MustCreateTodo(t, s, model.NewTodo("bob's", 1, nil, nil, bob.ID))

	active, err := todos.GetAll(ctx, alice.ID, false)
	if err != nil {
		t.Fatalf("GetAll active: %v", err)
	}
	var got []string
	for _, todo := range active {
		if todo.IsArchived {
			t.Errorf("active list contains archived todo %q", todo.Name)
		}
		got = append(got, todo.Name)
	}
	if diff := cmp.Diff([]string{"newest", "middle", "oldest"}, got); diff != "" {
		t.Errorf("active order mismatch (-want +got):\n%s", diff)
	}

	arch, err := todos.GetAll(ctx, alice.ID, true)
	if err != nil {
		t.Fatalf("GetAll archived: %v", err)
	}
	if len(arch) != 1 || !arch[0].IsArchived || arch[0].Name != "shelved" {
		t.Errorf("archived list = %+v", arch)
	}
}

func TestTodoArchiveEventsAreRecordedByCaller(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	owner := testutil.MustCreateUser(t, s, "alice", "pw1", "a@x.com")
	todos := s.Todos()

	todo := testutil.MustCreateTodo(t, s, model.NewTodo("archive me", 1, nil, nil, owner.ID))

	todo.Archive()
	if _, err := todos.Save(ctx, todo); err != nil {
		t.Fatalf("Save: %v", err)
	}
	history, _ := todos.History(ctx, todo.ID)
	for _, e := range history {
		if e.Event == model.EventArchive {
			t.Fatal("Save must not record an archive event")
		}
	}

	if err := todos.RecordEvent(ctx, todo.ID, model.EventArchive); err != nil {
		t.Fatalf("RecordEvent: %v", err)
	}

	todo.Activate()
	if _, err := todos.Save(ctx, todo); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := todos.RecordEvent(ctx, todo.ID, model.EventActivate); err != nil {
		t.Fatalf("RecordEvent: %v", err)
	}

	history, err := todos.History(ctx, todo.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	want := []model.EventCode{
		model.EventCreate,
		model.EventUpdate, model.EventArchive,
		model.EventUpdate, model.EventActivate,
	}
	if diff := cmp.Diff(want, eventCodes(history)); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}

	if err := todos.RecordEvent(ctx, todo.ID, model.EventCode(99)); !errors.Is(err, store.ErrInvalid) {
		t.Errorf("unknown code: got %v, want ErrInvalid", err)
	}
}

func TestTodoLastModified(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	owner := testutil.MustCreateUser(t, s, "alice", "pw1", "a@x.com")
	todos := s.Todos()

	if _, ok, err := todos.LastModified(ctx, 12345); err != nil || ok {
		t.Errorf("LastModified without history: ok=%v err=%v", ok, err)
	}

	before := time.Now().Add(-time.Second)
	todo := testutil.MustCreateTodo(t, s, model.NewTodo("tracked", 1, nil, nil, owner.ID))
	if err := todos.Toggle(ctx, &todo); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	changed, ok, err := todos.LastModified(ctx, todo.ID)
	if err != nil || !ok {
		t.Fatalf("LastModified: ok=%v err=%v", ok, err)
	}
	if changed.Before(before) {
		t.Errorf("last modified %v is older than the test", changed)
	}

	history, _ := todos.History(ctx, todo.ID)
	if !changed.Equal(history[len(history)-1].ChangeDate) {
		t.Errorf("last modified %v, want latest event %v", changed, history[len(history)-1].ChangeDate)
	}
}

func TestTodoDeleteByOwnerRecordsRemoveForEach(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	alice := testutil.MustCreateUser(t, s, "alice", "pw1", "a@x.com")
	bob := testutil.MustCreateUser(t, s, "bob", "pw2", "b@x.com")
	todos := s.Todos()

	a1 := testutil.MustCreateTodo(t, s, model.NewTodo("a1", 1, nil, nil, alice.ID))
	a2 := testutil.MustCreateTodo(t, s, model.NewTodo("a2", 1, nil, nil, alice.ID))
	testutil.MustCreateTodo(t, s, model.NewTodo("b1", 1, nil, nil, bob.ID))

	n, err := todos.DeleteByOwner(ctx, alice.ID)
	if err != nil {
		t.Fatalf("DeleteByOwner: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted %d todos, want 2", n)
	}

	for _, todo := range []model.Todo{a1, a2} {
		history, err := todos.History(ctx, todo.ID)
		if err != nil {
			t.Fatalf("History: %v", err)
		}
		last := history[len(history)-1]
		if last.Event != model.EventRemove {
			t.Errorf("todo %d last event = %s, want remove", todo.ID, last.Event)
		}
	}

	left, err := todos.GetAll(ctx, bob.ID, false)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(left) != 1 {
		t.Errorf("bob's todos = %d, want 1", len(left))
	}

	if n, err := todos.DeleteByOwner(ctx, alice.ID); err != nil || n != 0 {
		t.Errorf("second DeleteByOwner: n=%d err=%v", n, err)
	}
}

func TestTodoListLoadsBothSequences(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	owner := testutil.MustCreateUser(t, s, "alice", "pw1", "a@x.com")

	for _, p := range []int{3, 1, 2} {
		testutil.MustCreateTodo(t, s, model.NewTodo("active", p, nil, nil, owner.ID))
		archived := testutil.MustCreateTodo(t, s, model.NewTodo("archived", p, nil, nil, owner.ID))
		testutil.MustArchiveTodo(t, s, archived)
	}

	list, err := s.Todos().List(ctx, owner.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list.Active) != 3 || len(list.Archived) != 3 {
		t.Fatalf("got %d active, %d archived", len(list.Active), len(list.Archived))
	}

	list.SortByPriority(true)
	for _, seq := range [][]model.Todo{list.Active, list.Archived} {
		var got []int
		for _, todo := range seq {
			got = append(got, todo.Priority)
		}
		if diff := cmp.Diff([]int{3, 2, 1}, got); diff != "" {
			t.Errorf("priority order mismatch (-want +got):\n%s", diff)
		}
	}
}
