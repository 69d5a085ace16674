package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/retention-api/internal/model"
	apperrors "github.com/jwalitptl/retention-api/pkg/errors"
)

var rulesAddFlags struct {
	dataType string
	months   int
	inactive bool
}

var rulesUpdateFlags struct {
	months int
	active bool
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage retention rules",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all retention rules",
	Args:  cobra.NoArgs,
	RunE:  runRulesList,
}

var rulesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a retention rule",
	Long: `Add a retention rule for a data type.

Examples:
  # Remove resolved alerts after a year
  retentionctl rules add --type RESOLVED_ALERTS --months 12

  # Stage a rule without enabling it
  retentionctl rules add --type GRADUATED_STUDENTS --months 48 --inactive`,
	Args: cobra.NoArgs,
	RunE: runRulesAdd,
}

var rulesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change a rule's retention period and active flag",
	Long: `Change a rule's retention period and active flag. Both values are
replaced, so pass the current value of the one you are not changing.

Examples:
  retentionctl rules update 1 --months 24 --active=true
  retentionctl rules update 2 --months 48 --active=false`,
	Args: cobra.ExactArgs(1),
	RunE: runRulesUpdate,
}

var rulesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a retention rule (the data it targets is kept)",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesDelete,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesListCmd, rulesAddCmd, rulesUpdateCmd, rulesDeleteCmd)

	rulesAddCmd.Flags().StringVarP(&rulesAddFlags.dataType, "type", "t", "", "data type (RESOLVED_ALERTS, GRADUATED_STUDENTS)")
	rulesAddCmd.Flags().IntVarP(&rulesAddFlags.months, "months", "m", 0, "retention period in months")
	rulesAddCmd.Flags().BoolVar(&rulesAddFlags.inactive, "inactive", false, "create the rule disabled")
	_ = rulesAddCmd.MarkFlagRequired("type")
	_ = rulesAddCmd.MarkFlagRequired("months")

	rulesUpdateCmd.Flags().IntVarP(&rulesUpdateFlags.months, "months", "m", 0, "retention period in months")
	rulesUpdateCmd.Flags().BoolVar(&rulesUpdateFlags.active, "active", true, "whether the rule is active")
	_ = rulesUpdateCmd.MarkFlagRequired("months")
}

func runRulesList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	rules, err := a.Retention.ListRules(commandContext(cmd))
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), rules, rulesTable(rules))
}

func runRulesAdd(cmd *cobra.Command, args []string) error {
	dataType := model.DataType(strings.ToUpper(strings.TrimSpace(rulesAddFlags.dataType)))

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	rule, err := a.Retention.CreateRule(commandContext(cmd), dataType, rulesAddFlags.months, !rulesAddFlags.inactive, actor)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), rule, rulesTable([]*model.RetentionRule{rule}))
}

func runRulesUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseRuleID(args[0])
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	rule, err := a.Retention.UpdateRule(commandContext(cmd), id, rulesUpdateFlags.months, rulesUpdateFlags.active, actor)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), rule, rulesTable([]*model.RetentionRule{rule}))
}

func runRulesDelete(cmd *cobra.Command, args []string) error {
	id, err := parseRuleID(args[0])
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Retention.DeleteRule(commandContext(cmd), id, actor); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted rule %d\n", id)
	return nil
}

func parseRuleID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidation(fmt.Sprintf("invalid rule id %q", s))
	}
	return id, nil
}
