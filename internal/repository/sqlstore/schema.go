package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// The schema is owned by the application that records students, alerts and
// grades. Migrate exists for local databases, the CLI and tests; it creates
// only the tables the retention engine reads or writes. student_id references
// are plain columns, integrity is left to the cascade order.

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS student (
		student_id  TEXT PRIMARY KEY,
		first_name  TEXT NOT NULL DEFAULT '',
		last_name   TEXT NOT NULL DEFAULT '',
		email       TEXT NOT NULL DEFAULT '',
		cohort_year INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS attendance (
		attendance_id BIGSERIAL PRIMARY KEY,
		student_id    TEXT NOT NULL,
		session_date  DATE,
		session_id    TEXT,
		status        TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS submission (
		submission_id BIGSERIAL PRIMARY KEY,
		student_id    TEXT NOT NULL,
		assessment_id BIGINT,
		submitted_at  TIMESTAMPTZ,
		status        TEXT,
		mark          DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS wellbeing_record (
		record_id    BIGSERIAL PRIMARY KEY,
		student_id   TEXT NOT NULL,
		week_start   DATE,
		stress_level INTEGER,
		sleep_hours  DOUBLE PRECISION,
		source_type  TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS alert (
		alert_id   BIGSERIAL PRIMARY KEY,
		student_id TEXT NOT NULL,
		alert_type TEXT NOT NULL DEFAULT '',
		reason     TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		resolved   BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS enrollment (
		id          BIGSERIAL PRIMARY KEY,
		student_id  TEXT NOT NULL,
		module_code TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS retention_rule (
		rule_id          BIGSERIAL PRIMARY KEY,
		data_type        TEXT NOT NULL,
		retention_months INTEGER NOT NULL,
		is_active        BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS audit_log (
		log_id    BIGSERIAL PRIMARY KEY,
		user_id   TEXT NOT NULL,
		action    TEXT NOT NULL,
		details   TEXT NOT NULL DEFAULT '',
		timestamp TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_alert_resolved_created ON alert (resolved, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_student_cohort_year ON student (cohort_year)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS student (
		student_id  TEXT PRIMARY KEY,
		first_name  TEXT NOT NULL DEFAULT '',
		last_name   TEXT NOT NULL DEFAULT '',
		email       TEXT NOT NULL DEFAULT '',
		cohort_year INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS attendance (
		attendance_id INTEGER PRIMARY KEY AUTOINCREMENT,
		student_id    TEXT NOT NULL,
		session_date  DATE,
		session_id    TEXT,
		status        TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS submission (
		submission_id INTEGER PRIMARY KEY AUTOINCREMENT,
		student_id    TEXT NOT NULL,
		assessment_id INTEGER,
		submitted_at  DATETIME,
		status        TEXT,
		mark          REAL
	)`,
	`CREATE TABLE IF NOT EXISTS wellbeing_record (
		record_id    INTEGER PRIMARY KEY AUTOINCREMENT,
		student_id   TEXT NOT NULL,
		week_start   DATE,
		stress_level INTEGER,
		sleep_hours  REAL,
		source_type  TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS alert (
		alert_id   INTEGER PRIMARY KEY AUTOINCREMENT,
		student_id TEXT NOT NULL,
		alert_type TEXT NOT NULL DEFAULT '',
		reason     TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		resolved   BOOLEAN NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS enrollment (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		student_id  TEXT NOT NULL,
		module_code TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS retention_rule (
		rule_id          INTEGER PRIMARY KEY AUTOINCREMENT,
		data_type        TEXT NOT NULL,
		retention_months INTEGER NOT NULL,
		is_active        BOOLEAN NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS audit_log (
		log_id    INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id   TEXT NOT NULL,
		action    TEXT NOT NULL,
		details   TEXT NOT NULL DEFAULT '',
		timestamp DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_alert_resolved_created ON alert (resolved, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_student_cohort_year ON student (cohort_year)`,
}

// Migrate creates the engine's tables if they do not exist.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	statements := postgresSchema
	if db.DriverName() == driverSQLite {
		statements = sqliteSchema
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
