package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/todolist/internal/model"
	"github.com/nhle/todolist/internal/theme"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or write the configuration file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "config file:      %s\n", configPath)
		fmt.Fprintf(out, "database.path:    %s\n", cfg.Database.Path)
		fmt.Fprintf(out, "auth.scheme:      %s\n", cfg.Auth.PasswordScheme)
		if cfg.Auth.PasswordScheme == model.PasswordSchemeBcrypt {
			fmt.Fprintf(out, "auth.bcrypt_cost: %d\n", cfg.Auth.BcryptCost)
		}
		fmt.Fprintf(out, "log.level:        %s\n", cfg.Log.Level)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to the config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := model.SaveConfig(configPath, cfg); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), theme.SuccessStyle.Render("Wrote "+configPath))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configInitCmd)
}
