package model

import (
	"testing"
	"time"
)

func TestNewTodo(t *testing.T) {
	before := time.Now().UTC()
	desc := "two litres"
	todo := NewTodo("buy milk", 2, nil, &desc, 7)

	if todo.IsPersisted() {
		t.Error("new todo should not have an id")
	}
	if todo.Status != TodoStatusUndone {
		t.Errorf("status = %d, want undone", todo.Status)
	}
	if todo.CreateDate.Before(before) {
		t.Errorf("create date %v is before construction %v", todo.CreateDate, before)
	}
	if todo.OwnerID != 7 || todo.Priority != 2 {
		t.Errorf("unexpected owner/priority: %+v", todo)
	}
	if todo.DescriptionText() != desc {
		t.Errorf("description = %q", todo.DescriptionText())
	}
}

func TestTodoToggle(t *testing.T) {
	todo := Todo{Status: TodoStatusUndone}

	if code := todo.Toggle(); code != EventStatusDone {
		t.Errorf("first toggle event = %s, want %s", code, EventStatusDone)
	}
	if !todo.IsDone() {
		t.Error("todo should be done after first toggle")
	}

	if code := todo.Toggle(); code != EventStatusUndone {
		t.Errorf("second toggle event = %s, want %s", code, EventStatusUndone)
	}
	if todo.IsDone() {
		t.Error("todo should be undone after second toggle")
	}
}

func TestArchiveAndActivate(t *testing.T) {
	todo := Todo{Status: TodoStatusDone}

	todo.Archive()
	if !todo.IsArchived || todo.Status != TodoStatusDone {
		t.Errorf("archive changed status or did not archive: %+v", todo)
	}

	todo.Activate()
	if todo.IsArchived {
		t.Error("activate should clear archived flag")
	}
	if todo.Status != TodoStatusUndone {
		t.Errorf("activate should reset status, got %d", todo.Status)
	}
}

func TestEventCodes(t *testing.T) {
	want := map[EventCode]string{
		1: "create", 2: "remove", 3: "archive", 4: "activate",
		5: "update", 6: "status done", 7: "status undone",
	}
	for _, code := range EventCodes() {
		if got := code.String(); got != want[code] {
			t.Errorf("EventCode(%d).String() = %q, want %q", int(code), got, want[code])
		}
	}
	if len(EventCodes()) != len(want) {
		t.Errorf("got %d codes, want %d", len(EventCodes()), len(want))
	}
	if EventCode(42).Valid() {
		t.Error("unknown code reported valid")
	}
}
