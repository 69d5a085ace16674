package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/jwalitptl/retention-api/internal/model"
	apperrors "github.com/jwalitptl/retention-api/pkg/errors"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func validateOutputFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return nil
	}
	return apperrors.NewValidation(fmt.Sprintf("unknown output format %q (expected table, json or yaml)", format))
}

// render writes v in the selected format. table is only called for the
// table format.
func render(w io.Writer, v interface{}, table func(w io.Writer)) error {
	switch outputFormat {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		table(tw)
		return tw.Flush()
	}
}

func rulesTable(rules []*model.RetentionRule) func(io.Writer) {
	return func(w io.Writer) {
		fmt.Fprintln(w, "ID\tDATA TYPE\tMONTHS\tACTIVE")
		for _, r := range rules {
			fmt.Fprintf(w, "%d\t%s\t%d\t%t\n", r.RuleID, r.DataType, r.RetentionMonths, r.IsActive)
		}
	}
}

func previewTable(p *model.Preview) func(io.Writer) {
	return func(w io.Writer) {
		fmt.Fprintf(w, "Rule %d (%s, %dm): %d records eligible\n", p.Rule.RuleID, p.Rule.DataType, p.Rule.RetentionMonths, p.Count)
		switch {
		case len(p.Alerts) > 0:
			fmt.Fprintln(w, "ALERT ID\tSTUDENT\tTYPE\tCREATED")
			for _, a := range p.Alerts {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", a.AlertID, a.StudentID, a.AlertType, a.CreatedAt.Format("2006-01-02"))
			}
		case len(p.Students) > 0:
			fmt.Fprintln(w, "STUDENT\tNAME\tEMAIL\tCOHORT")
			for _, s := range p.Students {
				fmt.Fprintf(w, "%s\t%s %s\t%s\t%d\n", s.StudentID, s.FirstName, s.LastName, s.Email, s.CohortYear)
			}
		}
	}
}

func executionTable(e *model.Execution) func(io.Writer) {
	return func(w io.Writer) {
		fmt.Fprintf(w, "Rule %d (%s, %dm) cleaned %d records\n", e.Rule.RuleID, e.Rule.DataType, e.Rule.RetentionMonths, e.Deleted)
	}
}

func auditTable(logs []*model.AuditLog) func(io.Writer) {
	return func(w io.Writer) {
		fmt.Fprintln(w, "TIME\tUSER\tACTION\tDETAILS")
		for _, l := range logs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", l.Timestamp.Format("2006-01-02 15:04:05"), l.UserID, l.Action, l.Details)
		}
	}
}
