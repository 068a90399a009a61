package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/todolist/internal/credential"
	"github.com/nhle/todolist/internal/store"
	"github.com/nhle/todolist/internal/theme"
)

var loginPassword string

var loginCmd = &cobra.Command{
	Use:   "login <name-or-email>",
	Short: "Log in as a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the logged in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := credential.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), theme.SuccessStyle.Render("You are logged out!"))
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return inScope(cmd, func(ctx context.Context, sc *store.Scope) error {
			users := sc.Users()
			me, err := currentUser(ctx, users)
			if err != nil {
				return err
			}
			return renderUser(ctx, cmd.OutOrStdout(), users, me)
		})
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password (prompted when omitted)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	password, err := passwordOrPrompt(loginPassword, "Password")
	if err != nil {
		return err
	}

	return inScope(cmd, func(ctx context.Context, sc *store.Scope) error {
		users := sc.Users()
		user, err := users.Authenticate(ctx, args[0], password)
		switch {
		case errors.Is(err, store.ErrNotFound):
			return errors.New("no user with such name. Try again")
		case errors.Is(err, store.ErrBadPassword):
			return errors.New("wrong password. Try again")
		case err != nil:
			return err
		}

		if err := credential.Login(user.ID); err != nil {
			return err
		}
		log.Info("user logged in", "user", user.Name, "id", user.ID)
		fmt.Fprintln(cmd.OutOrStdout(), theme.SuccessStyle.Render("You are logged in as "+user.Name+"!"))
		return nil
	})
}

// passwordOrPrompt returns given when set, otherwise asks on the terminal.
func passwordOrPrompt(given, title string) (string, error) {
	if given != "" {
		return given, nil
	}

	var password string
	err := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&password).
		Run()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return password, nil
}

// newPasswordOrPrompt asks for a password and its confirmation.
func newPasswordOrPrompt(given string) (string, error) {
	if given != "" {
		return given, nil
	}

	var password, confirm string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password),
		huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&confirm),
	))
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	if password != confirm {
		return "", errors.New("passwords don't match. Input password again")
	}
	return password, nil
}
