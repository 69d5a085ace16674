package main

import (
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview <id>",
	Short: "Show the records a rule would delete, without deleting them",
	Long: `Show the records a rule would delete right now. Nothing is modified,
and inactive rules can be previewed too.

Examples:
  retentionctl preview 1
  retentionctl preview 2 --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	id, err := parseRuleID(args[0])
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.Retention.Preview(commandContext(cmd), id)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), p, previewTable(p))
}
