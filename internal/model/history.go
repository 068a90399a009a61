package model

import (
	"fmt"
	"time"
)

// EventCode identifies a lifecycle transition in the todo history.
// Values are persisted and must never be renumbered.
type EventCode int

const (
	EventCreate       EventCode = 1
	EventRemove       EventCode = 2
	EventArchive      EventCode = 3
	EventActivate     EventCode = 4
	EventUpdate       EventCode = 5
	EventStatusDone   EventCode = 6
	EventStatusUndone EventCode = 7
)

var eventNames = map[EventCode]string{
	EventCreate:       "create",
	EventRemove:       "remove",
	EventArchive:      "archive",
	EventActivate:     "activate",
	EventUpdate:       "update",
	EventStatusDone:   "status done",
	EventStatusUndone: "status undone",
}

// EventCodes lists every known code in ascending order.
func EventCodes() []EventCode {
	return []EventCode{
		EventCreate, EventRemove, EventArchive, EventActivate,
		EventUpdate, EventStatusDone, EventStatusUndone,
	}
}

func (c EventCode) String() string {
	if name, ok := eventNames[c]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", int(c))
}

// Valid reports whether c belongs to the fixed vocabulary.
func (c EventCode) Valid() bool {
	_, ok := eventNames[c]
	return ok
}

// HistoryEvent is an immutable audit record of a todo transition.
// ItemID may refer to a todo that no longer exists.
type HistoryEvent struct {
	ItemID     int64     `json:"item_id" db:"item_id"`
	ChangeDate time.Time `json:"change_date" db:"change_date"`
	Event      EventCode `json:"event_id" db:"event_id"`
}
