package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/todolist/internal/credential"
	"github.com/nhle/todolist/internal/model"
	"github.com/nhle/todolist/internal/store"
)

var (
	configPath string
	dbPath     string
	verbose    bool

	cfg *model.AppConfig
	db  *store.SQLiteStore
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "todoapp",
	Short:         "Multi-user todo lists",
	Long:          "todoapp keeps per-user todo lists in a local SQLite database.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", model.DefaultConfigPath(), "path to config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to database file (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log store statements")

	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(todoCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(configCmd)
}

// closeStore releases the store opened by setup, if any. cobra skips
// post-run hooks when a command fails, so main calls it after Execute.
func closeStore() error {
	if db == nil {
		return nil
	}
	err := db.Close()
	db = nil
	return err
}

// setup loads configuration, configures logging, and opens the store.
func setup() error {
	var err error
	cfg, err = model.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}

	level := parseLevel(cfg.Log.Level)
	if verbose {
		level = slog.LevelDebug
	}
	log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	scheme, err := credential.NewScheme(cfg.Auth)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(cfg.Database.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating database directory %s: %w", dir, err)
		}
	}

	db, err = store.NewSQLiteStore(cfg.Database.Path,
		store.WithLogger(log),
		store.WithPasswordScheme(scheme),
	)
	if err != nil {
		return err
	}
	log.Debug("opened store", "path", cfg.Database.Path, "scheme", scheme.Name())
	return nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// inScope runs fn with a request scope that is released on every path.
func inScope(cmd *cobra.Command, fn func(ctx context.Context, sc *store.Scope) error) error {
	sc := db.Scope()
	defer func() {
		if err := sc.Close(); err != nil {
			log.Warn("releasing scope", "scope", sc.ID.String(), "err", err)
		}
	}()
	return fn(cmd.Context(), sc)
}

// currentUser resolves the logged in user.
func currentUser(ctx context.Context, users *store.UserRepo) (model.User, error) {
	id, err := loggedInUserID()
	if errors.Is(err, credential.ErrNoLogin) {
		return model.User{}, errors.New("you need to login first")
	}
	if err != nil {
		return model.User{}, err
	}

	user, ok, err := users.GetByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if !ok {
		if err := credential.Logout(); err != nil {
			log.Warn("clearing stale login", "err", err)
		}
		return model.User{}, errors.New("logged in user no longer exists; login again")
	}
	return user, nil
}

// canActOn reports whether actor may view or change resources owned by
// ownerID: their own, or anyone's when actor is an admin.
func canActOn(ctx context.Context, users *store.UserRepo, actor model.User, ownerID int64) (bool, error) {
	if actor.ID == ownerID {
		return true, nil
	}
	return users.IsAdmin(ctx, actor.ID)
}

var errAccessDenied = errors.New("access denied")

// loggedInUserID resolves the remembered login.
var loggedInUserID = credential.CurrentUser
