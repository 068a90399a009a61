package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nhle/todolist/internal/credential"
	"github.com/nhle/todolist/internal/model"
	"github.com/nhle/todolist/internal/store"
	"github.com/nhle/todolist/internal/theme"
)

var (
	userEmail    string
	userPassword string
	userName     string
	userAdmin    bool
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a new user",
	Long: `Register a new user.

The first registered user becomes an admin. After that only admins may
grant admin rights with --admin.`,
	Args: cobra.ExactArgs(1),
	RunE: runUserAdd,
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users (admin only)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return inScope(cmd, func(ctx context.Context, sc *store.Scope) error {
			users := sc.Users()
			if _, err := requireAdmin(ctx, users); err != nil {
				return err
			}
			list, err := users.List(ctx)
			if err != nil {
				return err
			}
			return renderUsers(ctx, cmd.OutOrStdout(), users, list)
		})
	},
}

var userShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a user; defaults to the logged in user",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inScope(cmd, func(ctx context.Context, sc *store.Scope) error {
			users := sc.Users()
			user, err := targetUser(ctx, users, args)
			if err != nil {
				return err
			}
			return renderUser(ctx, cmd.OutOrStdout(), users, user)
		})
	},
}

var userEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Change a user's name, email or password",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runUserEdit,
}

var userRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Delete a user and all of their todos",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runUserRemove,
}

var userAdminCmd = &cobra.Command{
	Use:   "admin <id> <true|false>",
	Short: "Grant or revoke admin rights (admin only)",
	Args:  cobra.ExactArgs(2),
	RunE:  runUserAdmin,
}

func init() {
	userAddCmd.Flags().StringVarP(&userEmail, "email", "e", "", "email address (required)")
	userAddCmd.Flags().StringVarP(&userPassword, "password", "p", "", "password (prompted when omitted)")
	userAddCmd.Flags().BoolVar(&userAdmin, "admin", false, "grant admin rights")
	_ = userAddCmd.MarkFlagRequired("email")

	userEditCmd.Flags().StringVarP(&userName, "name", "n", "", "new name")
	userEditCmd.Flags().StringVarP(&userEmail, "email", "e", "", "new email address")
	userEditCmd.Flags().StringVarP(&userPassword, "password", "p", "", "new password")

	userRemoveCmd.Flags().StringVarP(&userPassword, "password", "p", "", "your password, to confirm")

	userCmd.AddCommand(userAddCmd, userListCmd, userShowCmd, userEditCmd, userRemoveCmd, userAdminCmd)
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	name := args[0]
	password, err := newPasswordOrPrompt(userPassword)
	if err != nil {
		return err
	}

	return inScope(cmd, func(ctx context.Context, sc *store.Scope) error {
		id, makeAdmin, err := registerUser(ctx, sc.Users(), model.NewUser(name, password, userEmail), userAdmin)
		if err != nil {
			return err
		}

		log.Info("user registered", "user", name, "id", id, "admin", makeAdmin)
		fmt.Fprintln(cmd.OutOrStdout(), theme.SuccessStyle.Render(
			fmt.Sprintf("Registered %s with id %d.", name, id)))
		return nil
	})
}

// registerUser saves a new account after the uniqueness pre-checks and
// reports whether it was made an admin. The first account always is;
// later ones only when wantAdmin is set by a logged in admin.
func registerUser(ctx context.Context, users *store.UserRepo, user model.User, wantAdmin bool) (int64, bool, error) {
	existing, err := users.List(ctx)
	if err != nil {
		return 0, false, err
	}
	makeAdmin := len(existing) == 0
	if wantAdmin && !makeAdmin {
		if _, err := requireAdmin(ctx, users); err != nil {
			return 0, false, err
		}
		makeAdmin = true
	}

	if err := checkNameFree(ctx, users, user.Name); err != nil {
		return 0, false, err
	}
	if err := checkEmailFree(ctx, users, user.Email); err != nil {
		return 0, false, err
	}

	id, err := users.Save(ctx, user)
	if err != nil {
		return 0, false, err
	}
	if makeAdmin {
		if err := users.SetAdmin(ctx, id, true); err != nil {
			return 0, false, err
		}
	}
	return id, makeAdmin, nil
}

func runUserEdit(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if !flags.Changed("name") && !flags.Changed("email") && !flags.Changed("password") {
		return errors.New("nothing to change; pass --name, --email or --password")
	}

	return inScope(cmd, func(ctx context.Context, sc *store.Scope) error {
		users := sc.Users()
		user, err := targetUser(ctx, users, args)
		if err != nil {
			return err
		}

		if flags.Changed("name") && userName != user.Name {
			if err := checkNameFree(ctx, users, userName); err != nil {
				return err
			}
			user.Name = userName
		}
		if flags.Changed("email") && userEmail != user.Email {
			if err := checkEmailFree(ctx, users, userEmail); err != nil {
				return err
			}
			user.Email = userEmail
		}
		if _, err := users.Save(ctx, user); err != nil {
			return err
		}
		if flags.Changed("password") {
			if err := users.SetPassword(ctx, user.ID, userPassword); err != nil {
				return err
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), theme.SuccessStyle.Render("Changes saved."))
		return nil
	})
}

func runUserRemove(cmd *cobra.Command, args []string) error {
	return inScope(cmd, func(ctx context.Context, sc *store.Scope) error {
		users := sc.Users()
		me, err := currentUser(ctx, users)
		if err != nil {
			return err
		}
		user, err := targetUser(ctx, users, args)
		if err != nil {
			return err
		}

		password, err := passwordOrPrompt(userPassword, "Your password")
		if err != nil {
			return err
		}
		if _, err := users.Authenticate(ctx, me.Name, password); err != nil {
			if errors.Is(err, store.ErrBadPassword) {
				return errors.New("wrong password")
			}
			return err
		}

		if err := users.Delete(ctx, user); err != nil {
			return err
		}
		if user.ID == me.ID {
			if err := credential.Logout(); err != nil {
				log.Warn("clearing login", "err", err)
			}
		}

		log.Info("user removed", "user", user.Name, "id", user.ID, "by", me.ID)
		fmt.Fprintln(cmd.OutOrStdout(), theme.SuccessStyle.Render("User "+user.Name+" removed."))
		return nil
	})
}

func runUserAdmin(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	grant, err := strconv.ParseBool(args[1])
	if err != nil {
		return fmt.Errorf("invalid admin flag %q: %w", args[1], err)
	}

	return inScope(cmd, func(ctx context.Context, sc *store.Scope) error {
		users := sc.Users()
		if _, err := requireAdmin(ctx, users); err != nil {
			return err
		}
		user, ok, err := users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no user with id %d", id)
		}
		return users.SetAdmin(ctx, user.ID, grant)
	})
}

// targetUser resolves the user named by an optional id argument. Without
// one it is the logged in user; other users need admin rights.
func targetUser(ctx context.Context, users *store.UserRepo, args []string) (model.User, error) {
	me, err := currentUser(ctx, users)
	if err != nil {
		return model.User{}, err
	}
	if len(args) == 0 {
		return me, nil
	}

	id, err := parseID(args[0])
	if err != nil {
		return model.User{}, err
	}
	allowed, err := canActOn(ctx, users, me, id)
	if err != nil {
		return model.User{}, err
	}
	if !allowed {
		return model.User{}, errAccessDenied
	}

	user, ok, err := users.GetByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if !ok {
		return model.User{}, fmt.Errorf("no user with id %d", id)
	}
	return user, nil
}

func requireAdmin(ctx context.Context, users *store.UserRepo) (model.User, error) {
	me, err := currentUser(ctx, users)
	if err != nil {
		return model.User{}, err
	}
	admin, err := users.IsAdmin(ctx, me.ID)
	if err != nil {
		return model.User{}, err
	}
	if !admin {
		return model.User{}, errAccessDenied
	}
	return me, nil
}

func checkNameFree(ctx context.Context, users *store.UserRepo, name string) error {
	taken, err := users.HasUserWithName(ctx, name)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("user with name %q already exists", name)
	}
	return nil
}

func checkEmailFree(ctx context.Context, users *store.UserRepo, email string) error {
	taken, err := users.HasUserWithEmail(ctx, email)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("user with email %q already exists", email)
	}
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
