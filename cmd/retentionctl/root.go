package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/retention-api/internal/app"
	"github.com/jwalitptl/retention-api/internal/config"
	apperrors "github.com/jwalitptl/retention-api/pkg/errors"
	"github.com/jwalitptl/retention-api/pkg/logger"
)

var (
	// Global flags
	cfgFile      string
	outputFormat string
	actor        string
)

var rootCmd = &cobra.Command{
	Use:   "retentionctl",
	Short: "Manage data retention rules and run retention cleanups",
	Long: `retentionctl administers the data retention engine directly against its
database, without going through the HTTP API.

It can:
  - List, add, update and delete retention rules
  - Preview the records a rule would remove
  - Execute a rule after confirmation
  - Create the schema and seed the default rules`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateOutputFormat(outputFormat)
	},
}

// Execute runs the root command. Validation failures exit with status 2.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if apperrors.IsValidation(err) {
		return 2
	}
	return 1
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format (table, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", "", "name recorded in the audit log (default: ADMIN)")
}

// openApp loads the config and wires the engine. Logs go to stderr so they
// never mix with command output.
func openApp(cmd *cobra.Command, opts ...app.Option) (*app.App, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	log := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Output:     cmd.ErrOrStderr(),
		JSON:       cfg.Log.Format == "json",
	})

	a, err := app.New(commandContext(cmd), cfg, log, opts...)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
