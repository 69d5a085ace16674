package retention

import (
	"time"

	"github.com/jwalitptl/retention-api/internal/model"
)

// DefaultProgramLengthMonths is the assumed length of a degree programme used
// to approximate graduation from a cohort's start year.
const DefaultProgramLengthMonths = 36

// ComputeCutoff returns the eligibility boundary for rule as of now. It never
// reads the system clock.
func ComputeCutoff(rule *model.RetentionRule, now time.Time, programMonths int) (model.Cutoff, error) {
	p, err := policyFor(rule.DataType)
	if err != nil {
		return model.Cutoff{}, err
	}
	return p.cutoff(now, rule.RetentionMonths, programMonths), nil
}

// resolvedAlertsCutoff is now minus months calendar months.
func resolvedAlertsCutoff(now time.Time, months, _ int) model.Cutoff {
	return model.Cutoff{
		DataType: model.DataTypeResolvedAlerts,
		Before:   subtractMonths(now, months),
	}
}

// graduatedStudentsCutoff works in whole years: cohorts that started before
// the returned year are past programme length plus retention. The division
// truncates.
func graduatedStudentsCutoff(now time.Time, months, programMonths int) model.Cutoff {
	total := programMonths + months
	return model.Cutoff{
		DataType: model.DataTypeGraduatedStudents,
		Year:     now.Year() - total/12,
	}
}

// subtractMonths moves t back by months calendar months. Days that do not
// exist in the target month normalise forward, so 31 March minus one month
// is 3 March (2 March in a leap year), matching SQLite's date modifiers.
func subtractMonths(t time.Time, months int) time.Time {
	return t.AddDate(0, -months, 0)
}
