package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nhle/todolist/internal/model"
	"github.com/nhle/todolist/internal/store"
	"github.com/nhle/todolist/internal/theme"
)

const dateLayout = "2006-01-02"

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.ColorBorder)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return theme.ColumnStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...)
}

func formatDue(due *time.Time) string {
	if due == nil {
		return "-"
	}
	return due.Local().Format(dateLayout)
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

func renderTodoSection(w io.Writer, title string, todos []model.Todo) {
	fmt.Fprintln(w, theme.HeaderStyle.Render(fmt.Sprintf("%s (%d)", title, len(todos))))
	if len(todos) == 0 {
		fmt.Fprintln(w, theme.HelpStyle.Render("  nothing here"))
		return
	}

	t := newTable("ID", "Name", "Status", "Priority", "Due", "Created")
	for _, todo := range todos {
		t.Row(
			strconv.FormatInt(todo.ID, 10),
			todo.Name,
			theme.StatusStyle(todo.Status).Render(theme.StatusLabel(todo.Status)),
			theme.PriorityStyle(todo.Priority).Render(strconv.Itoa(todo.Priority)),
			formatDue(todo.DueDate),
			formatTime(todo.CreateDate),
		)
	}
	fmt.Fprintln(w, t.Render())
}

func renderTodoList(w io.Writer, list *model.TodoList) {
	renderTodoSection(w, "Active", list.Active)
	fmt.Fprintln(w)
	renderTodoSection(w, "Archived", list.Archived)
}

func renderTodo(ctx context.Context, w io.Writer, todos *store.TodoRepo, todo model.Todo) error {
	changed, ok, err := todos.LastModified(ctx, todo.ID)
	if err != nil {
		return err
	}

	state := "active"
	if todo.IsArchived {
		state = "archived"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", lipgloss.NewStyle().Bold(true).Render(todo.Name))
	fmt.Fprintf(&b, "ID:          %d\n", todo.ID)
	fmt.Fprintf(&b, "Status:      %s (%s)\n",
		theme.StatusStyle(todo.Status).Render(theme.StatusLabel(todo.Status)), state)
	fmt.Fprintf(&b, "Priority:    %s\n", theme.PriorityStyle(todo.Priority).Render(strconv.Itoa(todo.Priority)))
	fmt.Fprintf(&b, "Due:         %s\n", formatDue(todo.DueDate))
	fmt.Fprintf(&b, "Created:     %s\n", formatTime(todo.CreateDate))
	if ok {
		fmt.Fprintf(&b, "Modified:    %s\n", formatTime(changed))
	}
	if desc := todo.DescriptionText(); desc != "" {
		fmt.Fprintf(&b, "\n%s", desc)
	}

	fmt.Fprintln(w, theme.DetailPanelStyle.Render(strings.TrimRight(b.String(), "\n")))
	return nil
}

func renderHistory(w io.Writer, events []model.HistoryEvent) {
	if len(events) == 0 {
		fmt.Fprintln(w, theme.HelpStyle.Render("no history"))
		return
	}
	t := newTable("When", "Event")
	for _, e := range events {
		t.Row(formatTime(e.ChangeDate), e.Event.String())
	}
	fmt.Fprintln(w, t.Render())
}

func renderUser(ctx context.Context, w io.Writer, users *store.UserRepo, user model.User) error {
	admin, err := users.IsAdmin(ctx, user.ID)
	if err != nil {
		return err
	}
	stats, err := users.Stats(ctx, user.ID)
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", lipgloss.NewStyle().Bold(true).Render(user.Name))
	fmt.Fprintf(&b, "ID:          %d\n", user.ID)
	fmt.Fprintf(&b, "Email:       %s\n", user.Email)
	fmt.Fprintf(&b, "Registered:  %s\n", formatTime(user.RegistrationDate))
	fmt.Fprintf(&b, "Admin:       %t\n", admin)
	fmt.Fprintf(&b, "Active:      %d (%d done, %d undone)\n", stats.Active, stats.ActiveDone, stats.ActiveUndone)
	fmt.Fprintf(&b, "Archived:    %d", stats.Archived)

	fmt.Fprintln(w, theme.DetailPanelStyle.Render(b.String()))
	return nil
}

func renderUsers(ctx context.Context, w io.Writer, users *store.UserRepo, list []model.User) error {
	if len(list) == 0 {
		fmt.Fprintln(w, theme.HelpStyle.Render("no users"))
		return nil
	}

	t := newTable("ID", "Name", "Email", "Admin", "Active", "Archived", "Registered")
	for _, u := range list {
		admin, err := users.IsAdmin(ctx, u.ID)
		if err != nil {
			return err
		}
		stats, err := users.Stats(ctx, u.ID)
		if err != nil {
			return err
		}
		t.Row(
			strconv.FormatInt(u.ID, 10),
			u.Name,
			u.Email,
			strconv.FormatBool(admin),
			strconv.Itoa(stats.Active),
			strconv.Itoa(stats.Archived),
			formatTime(u.RegistrationDate),
		)
	}
	fmt.Fprintln(w, t.Render())
	return nil
}
