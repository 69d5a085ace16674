package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/retention-api/internal/app"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the tables the retention engine uses",
	Long: `Create any missing tables the retention engine reads and writes.
Existing tables are left as they are. When retention.seed_defaults is set the
default rules are seeded afterwards.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, app.WithMigrate())
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "Schema is up to date (%s)\n", a.DB.DriverName())
	return nil
}
