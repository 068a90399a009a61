package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/todolist/internal/model"
	"github.com/nhle/todolist/internal/store"
	"github.com/nhle/todolist/internal/theme"
)

var (
	todoName        string
	todoPriority    int
	todoDue         string
	todoDescription string
	todoDone        bool
	todoOwner       int64
	todoSort        string
	todoDesc        bool
)

var todoCmd = &cobra.Command{
	Use:   "todo",
	Short: "Manage todos",
}

var todoAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a todo",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTodoAdd,
}

var todoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active and archived todos",
	Args:  cobra.NoArgs,
	RunE:  runTodoList,
}

var todoShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a todo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTodo(cmd, args[0], func(ctx context.Context, todos *store.TodoRepo, todo model.Todo) error {
			return renderTodo(ctx, cmd.OutOrStdout(), todos, todo)
		})
	},
}

var todoEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a todo",
	Args:  cobra.ExactArgs(1),
	RunE:  runTodoEdit,
}

var todoToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a todo between done and undone",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTodo(cmd, args[0], func(ctx context.Context, todos *store.TodoRepo, todo model.Todo) error {
			if todo.IsArchived {
				return errors.New("archived todos can't be toggled; activate it first")
			}
			if err := todos.Toggle(ctx, &todo); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", todo.Name,
				theme.StatusStyle(todo.Status).Render(theme.StatusLabel(todo.Status)))
			return nil
		})
	},
}

var todoArchiveCmd = &cobra.Command{
	Use:   "archive <id>",
	Short: "Move a todo to the archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTodo(cmd, args[0], func(ctx context.Context, todos *store.TodoRepo, todo model.Todo) error {
			if todo.IsArchived {
				return fmt.Errorf("todo %d is already archived", todo.ID)
			}
			todo.Archive()
			return saveWithEvent(ctx, cmd, todos, todo, model.EventArchive, "archived")
		})
	},
}

var todoActivateCmd = &cobra.Command{
	Use:   "activate <id>",
	Short: "Return an archived todo to the worklist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTodo(cmd, args[0], func(ctx context.Context, todos *store.TodoRepo, todo model.Todo) error {
			if !todo.IsArchived {
				return fmt.Errorf("todo %d is not archived", todo.ID)
			}
			todo.Activate()
			return saveWithEvent(ctx, cmd, todos, todo, model.EventActivate, "activated")
		})
	},
}

var todoRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete a todo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTodo(cmd, args[0], func(ctx context.Context, todos *store.TodoRepo, todo model.Todo) error {
			if err := todos.Delete(ctx, todo); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), theme.SuccessStyle.Render("Removed "+todo.Name+"."))
			return nil
		})
	},
}

var todoHistoryCmd = &cobra.Command{
	Use:   "history <id>",
	Short: "Show the recorded events of a todo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTodo(cmd, args[0], func(ctx context.Context, todos *store.TodoRepo, todo model.Todo) error {
			events, err := todos.History(ctx, todo.ID)
			if err != nil {
				return err
			}
			renderHistory(cmd.OutOrStdout(), events)
			return nil
		})
	},
}

func init() {
	todoAddCmd.Flags().IntVarP(&todoPriority, "priority", "P", model.DefaultPriority, "priority, 0 is the most urgent")
	todoAddCmd.Flags().StringVarP(&todoDue, "due", "d", "", "due date (YYYY-MM-DD)")
	todoAddCmd.Flags().StringVarP(&todoDescription, "description", "D", "", "longer description")

	todoListCmd.Flags().StringVarP(&todoSort, "sort", "s", model.SortByCreateDate,
		"sort key: "+strings.Join(model.SortKeys(), ", "))
	todoListCmd.Flags().BoolVar(&todoDesc, "desc", false, "sort descending")
	todoListCmd.Flags().Int64Var(&todoOwner, "owner", 0, "list another user's todos (admin only)")

	todoEditCmd.Flags().StringVarP(&todoName, "name", "n", "", "new name")
	todoEditCmd.Flags().IntVarP(&todoPriority, "priority", "P", model.DefaultPriority, "new priority")
	todoEditCmd.Flags().StringVarP(&todoDue, "due", "d", "", "new due date (YYYY-MM-DD), empty clears it")
	todoEditCmd.Flags().StringVarP(&todoDescription, "description", "D", "", "new description, empty clears it")
	todoEditCmd.Flags().BoolVar(&todoDone, "done", false, "mark done (or undone with --done=false)")

	todoCmd.AddCommand(
		todoAddCmd, todoListCmd, todoShowCmd, todoEditCmd, todoToggleCmd,
		todoArchiveCmd, todoActivateCmd, todoRemoveCmd, todoHistoryCmd,
	)
}

func runTodoAdd(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return errors.New("todo name must not be empty")
	}
	due, err := parseDue(todoDue)
	if err != nil {
		return err
	}
	if todoPriority < 0 {
		return fmt.Errorf("priority must not be negative, got %d", todoPriority)
	}

	return inScope(cmd, func(ctx context.Context, sc *store.Scope) error {
		me, err := currentUser(ctx, sc.Users())
		if err != nil {
			return err
		}

		var description *string
		if todoDescription != "" {
			description = &todoDescription
		}

		id, err := sc.Todos().Save(ctx, model.NewTodo(name, todoPriority, due, description, me.ID))
		if err != nil {
			return err
		}
		log.Debug("todo created", "id", id, "owner", me.ID)
		fmt.Fprintln(cmd.OutOrStdout(), theme.SuccessStyle.Render(fmt.Sprintf("Created todo %d.", id)))
		return nil
	})
}

func runTodoList(cmd *cobra.Command, args []string) error {
	return inScope(cmd, func(ctx context.Context, sc *store.Scope) error {
		users := sc.Users()
		me, err := currentUser(ctx, users)
		if err != nil {
			return err
		}

		owner := me.ID
		if todoOwner != 0 {
			allowed, err := canActOn(ctx, users, me, todoOwner)
			if err != nil {
				return err
			}
			if !allowed {
				return errAccessDenied
			}
			owner = todoOwner
		}

		list, err := sc.Todos().List(ctx, owner)
		if err != nil {
			return err
		}
		if err := list.Sort(todoSort, todoDesc); err != nil {
			return err
		}
		renderTodoList(cmd.OutOrStdout(), list)
		return nil
	})
}

func runTodoEdit(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	var due *time.Time
	if flags.Changed("due") {
		var err error
		if due, err = parseDue(todoDue); err != nil {
			return err
		}
	}

	return withTodo(cmd, args[0], func(ctx context.Context, todos *store.TodoRepo, todo model.Todo) error {
		if flags.Changed("done") && todoDone != todo.IsDone() {
			if todo.IsArchived {
				return errors.New("archived todos can't change status; activate it first")
			}
			if err := todos.Toggle(ctx, &todo); err != nil {
				return err
			}
		}

		changed := false
		if flags.Changed("name") {
			if strings.TrimSpace(todoName) == "" {
				return errors.New("todo name must not be empty")
			}
			todo.Name = todoName
			changed = true
		}
		if flags.Changed("priority") {
			if todoPriority < 0 {
				return fmt.Errorf("priority must not be negative, got %d", todoPriority)
			}
			todo.Priority = todoPriority
			changed = true
		}
		if flags.Changed("due") {
			todo.DueDate = due
			changed = true
		}
		if flags.Changed("description") {
			todo.Description = nil
			if todoDescription != "" {
				todo.Description = &todoDescription
			}
			changed = true
		}

		if changed {
			if _, err := todos.Save(ctx, todo); err != nil {
				return err
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), theme.SuccessStyle.Render("Changes saved."))
		return nil
	})
}

// withTodo loads the todo named by idArg and runs fn when the logged in
// user owns it or is an admin.
func withTodo(
	cmd *cobra.Command,
	idArg string,
	fn func(ctx context.Context, todos *store.TodoRepo, todo model.Todo) error,
) error {
	id, err := parseID(idArg)
	if err != nil {
		return err
	}

	return inScope(cmd, func(ctx context.Context, sc *store.Scope) error {
		users := sc.Users()
		me, err := currentUser(ctx, users)
		if err != nil {
			return err
		}

		todos := sc.Todos()
		todo, ok, err := todos.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no todo with id %d", id)
		}

		allowed, err := canActOn(ctx, users, me, todo.OwnerID)
		if err != nil {
			return err
		}
		if !allowed {
			return errAccessDenied
		}
		return fn(ctx, todos, todo)
	})
}

func saveWithEvent(
	ctx context.Context,
	cmd *cobra.Command,
	todos *store.TodoRepo,
	todo model.Todo,
	code model.EventCode,
	verb string,
) error {
	if err := saveTransition(ctx, todos, todo, code); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), theme.SuccessStyle.Render(fmt.Sprintf("Todo %d %s.", todo.ID, verb)))
	return nil
}

// saveTransition persists an archived or activated todo and records the
// matching event, which Save does not record on its own.
func saveTransition(ctx context.Context, todos *store.TodoRepo, todo model.Todo, code model.EventCode) error {
	if _, err := todos.Save(ctx, todo); err != nil {
		return err
	}
	return todos.RecordEvent(ctx, todo.ID, code)
}

// parseDue parses a local calendar date. Dates before today are
// rejected; an empty string means no due date.
func parseDue(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	due, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q, want YYYY-MM-DD", s)
	}
	y, m, d := time.Now().Date()
	if due.Before(time.Date(y, m, d, 0, 0, 0, 0, time.Local)) {
		return nil, errors.New("date from the past can't be due date")
	}
	due = due.UTC()
	return &due, nil
}
