package model

import (
	"time"

	apperrors "github.com/jwalitptl/retention-api/pkg/errors"
)

// DataType tags the class of records a retention rule targets.
type DataType string

const (
	DataTypeResolvedAlerts    DataType = "RESOLVED_ALERTS"
	DataTypeGraduatedStudents DataType = "GRADUATED_STUDENTS"
)

// DataTypes lists every supported data type in display order.
var DataTypes = []DataType{
	DataTypeResolvedAlerts,
	DataTypeGraduatedStudents,
}

// Valid reports whether d is one of the supported data types.
func (d DataType) Valid() bool {
	for _, known := range DataTypes {
		if d == known {
			return true
		}
	}
	return false
}

func (d DataType) String() string {
	return string(d)
}

// RetentionRule sets how many months records of one data type are kept.
type RetentionRule struct {
	RuleID          int64    `json:"rule_id" yaml:"rule_id" db:"rule_id"`
	DataType        DataType `json:"data_type" yaml:"data_type" db:"data_type"`
	RetentionMonths int      `json:"retention_months" yaml:"retention_months" db:"retention_months"`
	IsActive        bool     `json:"is_active" yaml:"is_active" db:"is_active"`
}

// Validate checks the fields an administrator may set.
func (r *RetentionRule) Validate() error {
	if !r.DataType.Valid() {
		return apperrors.NewValidation("unknown data type: " + string(r.DataType))
	}
	return ValidateMonths(r.RetentionMonths)
}

// ValidateMonths rejects a non-positive retention period.
func ValidateMonths(months int) error {
	if months <= 0 {
		return apperrors.NewValidation("months must be positive")
	}
	return nil
}

// DefaultRules are seeded when no rule for their data type exists.
func DefaultRules() []*RetentionRule {
	return []*RetentionRule{
		{DataType: DataTypeResolvedAlerts, RetentionMonths: 12, IsActive: true},
		{DataType: DataTypeGraduatedStudents, RetentionMonths: 48, IsActive: true},
	}
}

// Cutoff is the boundary below which records of a data type are expired.
// Before is set for timestamp-based types, Year for cohort-based ones.
type Cutoff struct {
	DataType DataType  `json:"data_type" yaml:"data_type"`
	Before   time.Time `json:"before,omitempty" yaml:"before,omitempty"`
	Year     int       `json:"year,omitempty" yaml:"year,omitempty"`
}

// Preview is the dry-run result for one rule. Exactly one of Alerts or
// Students is populated, depending on the rule's data type.
type Preview struct {
	Rule     *RetentionRule `json:"rule" yaml:"rule"`
	Cutoff   Cutoff         `json:"cutoff" yaml:"cutoff"`
	Count    int            `json:"count" yaml:"count"`
	Alerts   []*Alert       `json:"alerts,omitempty" yaml:"alerts,omitempty"`
	Students []*Student     `json:"students,omitempty" yaml:"students,omitempty"`
}

// Execution summarises one execute call.
type Execution struct {
	Rule        *RetentionRule `json:"rule" yaml:"rule"`
	Cutoff      Cutoff         `json:"cutoff" yaml:"cutoff"`
	Deleted     int64          `json:"deleted" yaml:"deleted"`
	PerformedBy string         `json:"performed_by" yaml:"performed_by"`
	ExecutedAt  time.Time      `json:"executed_at" yaml:"executed_at"`
}
