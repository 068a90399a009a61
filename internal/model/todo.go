package model

import "time"

// Todo status values.
const (
	TodoStatusUndone = 0
	TodoStatusDone   = 1
)

// DefaultPriority is assigned when a todo is created without one.
// Lower values rank higher; 0 is the most urgent.
const DefaultPriority = 3

// Todo is a single task item owned by a user.
//
// ID is zero until the row is inserted. OwnerID is fixed at creation;
// updates never rewrite it.
type Todo struct {
	ID          int64      `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Status      int        `json:"status" db:"status"`
	CreateDate  time.Time  `json:"create_date" db:"create_date"`
	Priority    int        `json:"priority" db:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty" db:"due_date"`
	OwnerID     int64      `json:"owner_id" db:"owner_id"`
	IsArchived  bool       `json:"is_archived" db:"is_archived"`
	Description *string    `json:"description,omitempty" db:"description"`
}

// NewTodo builds an unsaved, undone todo stamped with the current time.
func NewTodo(
	name string,
	priority int,
	dueDate *time.Time,
	description *string,
	ownerID int64,
) Todo {
	return Todo{
		Name:        name,
		Status:      TodoStatusUndone,
		CreateDate:  time.Now().UTC(),
		Priority:    priority,
		DueDate:     dueDate,
		OwnerID:     ownerID,
		Description: description,
	}
}

// IsPersisted reports whether the todo has been assigned an ID.
func (t Todo) IsPersisted() bool {
	return t.ID != 0
}

// IsDone reports whether the todo is marked complete.
func (t Todo) IsDone() bool {
	return t.Status == TodoStatusDone
}

// Toggle flips the status between done and undone and returns the
// history event describing the transition.
func (t *Todo) Toggle() EventCode {
	if t.Status == TodoStatusUndone {
		t.Status = TodoStatusDone
		return EventStatusDone
	}
	t.Status = TodoStatusUndone
	return EventStatusUndone
}

// Archive moves the todo out of the active worklist. Status is kept.
func (t *Todo) Archive() {
	t.IsArchived = true
}

// Activate returns an archived todo to the worklist as undone.
func (t *Todo) Activate() {
	t.IsArchived = false
	t.Status = TodoStatusUndone
}

// DescriptionText returns the description or "" when unset.
func (t Todo) DescriptionText() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}
