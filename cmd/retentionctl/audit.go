package main

import (
	"github.com/spf13/cobra"
)

var auditFlags struct {
	limit int
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show the most recent audit log entries",
	Args:  cobra.NoArgs,
	RunE:  runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.Flags().IntVarP(&auditFlags.limit, "limit", "n", 50, "number of entries to show")
}

func runAudit(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	logs, err := a.Audit.Recent(commandContext(cmd), auditFlags.limit)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), logs, auditTable(logs))
}
