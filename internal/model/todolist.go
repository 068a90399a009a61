package model

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Sort keys accepted by TodoList.Sort.
const (
	SortByName       = "name"
	SortByPriority   = "priority"
	SortByDueDate    = "due date"
	SortByCreateDate = "create date"
	SortByStatus     = "status"
)

// SortKeys lists the accepted sort keys.
func SortKeys() []string {
	return []string{SortByName, SortByPriority, SortByDueDate, SortByCreateDate, SortByStatus}
}

// TodoList is the per-owner view of active and archived todos.
// It is built fresh for each request and never persisted.
type TodoList struct {
	OwnerID  int64
	Active   []Todo
	Archived []Todo
}

// NewTodoList wraps already loaded todos for an owner.
func NewTodoList(ownerID int64, active, archived []Todo) *TodoList {
	return &TodoList{OwnerID: ownerID, Active: active, Archived: archived}
}

// Sort reorders both lists by the named key.
func (l *TodoList) Sort(key string, desc bool) error {
	switch key {
	case SortByName:
		l.SortByName(desc)
	case SortByPriority:
		l.SortByPriority(desc)
	case SortByDueDate:
		l.SortByDueDate(desc)
	case SortByCreateDate:
		l.SortByCreateDate(desc)
	case SortByStatus:
		l.SortByStatus(desc)
	default:
		return fmt.Errorf("unknown sort key %q", key)
	}
	return nil
}

// SortByName orders todos by name, byte-wise.
func (l *TodoList) SortByName(desc bool) {
	l.sortBoth(func(a, b Todo) int { return strings.Compare(a.Name, b.Name) }, desc)
}

// SortByPriority orders todos by priority; ascending puts 0 first.
func (l *TodoList) SortByPriority(desc bool) {
	l.sortBoth(func(a, b Todo) int { return cmp.Compare(a.Priority, b.Priority) }, desc)
}

// SortByDueDate places todos without a due date before any dated todo
// when ascending, and after them when descending.
func (l *TodoList) SortByDueDate(desc bool) {
	l.sortBoth(func(a, b Todo) int { return compareDueDates(a.DueDate, b.DueDate) }, desc)
}

// SortByCreateDate orders todos by creation time.
func (l *TodoList) SortByCreateDate(desc bool) {
	l.sortBoth(func(a, b Todo) int { return a.CreateDate.Compare(b.CreateDate) }, desc)
}

// SortByStatus orders todos by status; ascending puts undone first.
func (l *TodoList) SortByStatus(desc bool) {
	l.sortBoth(func(a, b Todo) int { return cmp.Compare(a.Status, b.Status) }, desc)
}

// sortBoth applies the same stable ordering to both lists. Equal
// elements keep their input order in either direction.
func (l *TodoList) sortBoth(compare func(a, b Todo) int, desc bool) {
	fn := compare
	if desc {
		fn = func(a, b Todo) int { return compare(b, a) }
	}
	slices.SortStableFunc(l.Active, fn)
	slices.SortStableFunc(l.Archived, fn)
}

func compareDueDates(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return a.Compare(*b)
	}
}
