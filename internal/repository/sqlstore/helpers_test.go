package sqlstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/retention-api/internal/config"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := NewDB(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "retention.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Migrate(context.Background(), db))
	return db
}

func insertStudent(t *testing.T, db *sqlx.DB, id string, cohortYear int) {
	t.Helper()
	_, err := db.Exec(
		db.Rebind(`INSERT INTO student (student_id, first_name, last_name, email, cohort_year) VALUES (?, ?, ?, ?, ?)`),
		id, "First "+id, "Last "+id, id+"@example.ac.uk", cohortYear,
	)
	require.NoError(t, err)
}

// insertDependents gives the student one row in every dependent table.
func insertDependents(t *testing.T, db *sqlx.DB, studentID string, createdAt time.Time) {
	t.Helper()
	stmts := []struct {
		query string
		args  []interface{}
	}{
		{`INSERT INTO attendance (student_id, session_date, session_id, status) VALUES (?, ?, ?, ?)`,
			[]interface{}{studentID, createdAt, "S1", "PRESENT"}},
		{`INSERT INTO submission (student_id, assessment_id, submitted_at, status, mark) VALUES (?, ?, ?, ?, ?)`,
			[]interface{}{studentID, 1, createdAt, "SUBMITTED", 64.5}},
		{`INSERT INTO wellbeing_record (student_id, week_start, stress_level, sleep_hours, source_type) VALUES (?, ?, ?, ?, ?)`,
			[]interface{}{studentID, createdAt, 3, 7.5, "SURVEY"}},
		{`INSERT INTO alert (student_id, alert_type, reason, created_at, resolved) VALUES (?, ?, ?, ?, ?)`,
			[]interface{}{studentID, "ATTENDANCE", "missed sessions", createdAt, false}},
		{`INSERT INTO enrollment (student_id, module_code) VALUES (?, ?)`,
			[]interface{}{studentID, "CS101"}},
	}
	for _, s := range stmts {
		_, err := db.Exec(db.Rebind(s.query), s.args...)
		require.NoError(t, err)
	}
}

func insertAlert(t *testing.T, db *sqlx.DB, studentID string, createdAt time.Time, resolved bool) int64 {
	t.Helper()
	var id int64
	err := db.Get(&id,
		db.Rebind(`INSERT INTO alert (student_id, alert_type, reason, created_at, resolved) VALUES (?, ?, ?, ?, ?) RETURNING alert_id`),
		studentID, "WELLBEING", "low score", createdAt.UTC(), resolved,
	)
	require.NoError(t, err)
	return id
}

func countRows(t *testing.T, db *sqlx.DB, table, studentID string) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, db.Rebind("SELECT COUNT(*) FROM "+table+" WHERE student_id = ?"), studentID))
	return n
}
