package model

import (
	"time"
)

type AuditLog struct {
	LogID     int64     `json:"log_id" yaml:"log_id" db:"log_id"`
	UserID    string    `json:"user_id" yaml:"user_id" db:"user_id"`
	Action    string    `json:"action" yaml:"action" db:"action"`
	Details   string    `json:"details" yaml:"details" db:"details"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp" db:"timestamp"`
}

const (
	// Action types
	AuditActionCreateRule       = "CREATE_RULE"
	AuditActionUpdateRule       = "UPDATE_RULE"
	AuditActionDeleteRule       = "DELETE_RULE"
	AuditActionExecuteRetention = "EXECUTE_RETENTION"

	// DefaultActor is recorded when a caller does not identify itself.
	DefaultActor = "ADMIN"

	DefaultAuditListLimit = 50
)
