// Package cli provides the modelsync command-line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/leapstack-labs/modelsync/internal/config"
	"github.com/spf13/cobra"

	// Register the bundled adapters.
	_ "github.com/leapstack-labs/modelsync/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/modelsync/pkg/adapters/sqlite"
)

// Version is set at build time.
var Version = "0.1.0"

var (
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "modelsync",
		Short: "modelsync - schema synchronization for declared models",
		Long: `modelsync keeps a database in step with declaratively defined models.

Models live in a YAML schema file; modelsync creates the missing tables
(or, with --force, drops and recreates everything) and reports what it did.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			var err error
			cfg, err = config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default modelsync.yaml)")
	flags.String("env", "", "environment whose connection target to use")
	flags.String("target", "", "connection target, overriding the environment table")
	flags.String("schema", "", "model schema file (default schema.yaml)")
	flags.BoolP("verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newSyncCommand(),
		newModelsCommand(),
		newVersionCommand(),
	)

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
