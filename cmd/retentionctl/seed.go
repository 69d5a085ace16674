package main

import (
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the default retention rules that are missing",
	Long: `Insert the default rules (RESOLVED_ALERTS 12 months, GRADUATED_STUDENTS
48 months) for data types that have no rule yet. Existing rules are never
changed. Prints the resulting rule set.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := commandContext(cmd)
	if err := a.Rules.SeedDefaults(ctx); err != nil {
		return err
	}

	rules, err := a.Retention.ListRules(ctx)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), rules, rulesTable(rules))
}
