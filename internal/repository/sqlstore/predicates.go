package sqlstore

import "time"

// Eligibility predicates shared by preview and purge so both paths always
// select the same rows.
const (
	resolvedAlertsWhere    = "resolved = ? AND created_at < ?"
	graduatedStudentsWhere = "cohort_year < ?"

	alertColumns   = "alert_id, student_id, alert_type, reason, created_at, resolved"
	studentColumns = "student_id, first_name, last_name, email, cohort_year"
)

func resolvedAlertsArgs(before time.Time) []interface{} {
	return []interface{}{true, before.UTC()}
}

func graduatedStudentsArgs(cohortBefore int) []interface{} {
	return []interface{}{cohortBefore}
}
