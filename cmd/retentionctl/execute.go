package main

import (
	"fmt"

	"github.com/spf13/cobra"

	apperrors "github.com/jwalitptl/retention-api/pkg/errors"
)

var executeFlags struct {
	yes bool
}

var executeCmd = &cobra.Command{
	Use:   "execute <id>",
	Short: "Permanently delete the records a rule makes eligible",
	Long: `Permanently delete the records a rule makes eligible. For
GRADUATED_STUDENTS every dependent record of each student is removed as well.

The number of eligible records is printed first. Nothing is deleted unless
--yes is given, and there is no undo.

Examples:
  # See what would happen
  retentionctl execute 1

  # Delete
  retentionctl execute 1 --yes --actor registrar`,
	Args: cobra.ExactArgs(1),
	RunE: runExecute,
}

func init() {
	rootCmd.AddCommand(executeCmd)
	executeCmd.Flags().BoolVarP(&executeFlags.yes, "yes", "y", false, "confirm the deletion")
}

func runExecute(cmd *cobra.Command, args []string) error {
	id, err := parseRuleID(args[0])
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := commandContext(cmd)
	p, err := a.Retention.Preview(ctx, id)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "Rule %d (%s, %dm): %d records eligible for deletion\n",
		p.Rule.RuleID, p.Rule.DataType, p.Rule.RetentionMonths, p.Count)
	if !p.Rule.IsActive {
		fmt.Fprintln(stderr, "Rule is inactive; executing it deletes nothing")
	}

	if !executeFlags.yes {
		return apperrors.NewValidation("refusing to delete without --yes")
	}

	exec, err := a.Retention.ExecuteRule(ctx, id, actor)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), exec, executionTable(exec))
}
