package model

import "time"

// Student is the root of the graduated-students cascade.
type Student struct {
	StudentID  string `json:"student_id" yaml:"student_id" db:"student_id"`
	FirstName  string `json:"first_name" yaml:"first_name" db:"first_name"`
	LastName   string `json:"last_name" yaml:"last_name" db:"last_name"`
	Email      string `json:"email" yaml:"email" db:"email"`
	CohortYear int    `json:"cohort_year" yaml:"cohort_year" db:"cohort_year"`
}

// Alert is a wellbeing alert raised for a student.
type Alert struct {
	AlertID   int64     `json:"alert_id" yaml:"alert_id" db:"alert_id"`
	StudentID string    `json:"student_id" yaml:"student_id" db:"student_id"`
	AlertType string    `json:"alert_type" yaml:"alert_type" db:"alert_type"`
	Reason    string    `json:"reason" yaml:"reason" db:"reason"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at" db:"created_at"`
	Resolved  bool      `json:"resolved" yaml:"resolved" db:"resolved"`
}

// StudentDependents lists the tables referencing student_id, in the order
// their rows must be removed before the student row itself.
var StudentDependents = []string{
	"attendance",
	"submission",
	"wellbeing_record",
	"alert",
	"enrollment",
}
