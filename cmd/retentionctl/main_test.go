package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jwalitptl/retention-api/internal/config"
	"github.com/jwalitptl/retention-api/internal/model"
	"github.com/jwalitptl/retention-api/internal/repository/sqlstore"
	apperrors "github.com/jwalitptl/retention-api/pkg/errors"
)

// writeConfig creates a sqlite-backed config file and returns its path and
// the database path.
func writeConfig(t *testing.T, seed bool) (string, string) {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "cli.db")
	cfgPath := filepath.Join(dir, "config.yaml")

	content := fmt.Sprintf(`database:
  driver: sqlite
  path: %s
retention:
  seed_defaults: %t
log:
  level: error
`, dbPath, seed)
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))
	return cfgPath, dbPath
}

// run executes the root command with fresh flag values and returns stdout.
func run(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()

	cfgFile, outputFormat, actor = "", formatTable, ""
	rulesAddFlags.inactive = false
	rulesUpdateFlags.active = true
	executeFlags.yes = false
	auditFlags.limit = 50

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append(args, "--config", cfgPath))
	err := rootCmd.Execute()
	return stdout.String(), err
}

func listRules(t *testing.T, cfgPath string) []model.RetentionRule {
	t.Helper()
	out, err := run(t, cfgPath, "rules", "list", "-o", "json")
	require.NoError(t, err)
	var rules []model.RetentionRule
	require.NoError(t, json.Unmarshal([]byte(out), &rules))
	return rules
}

func TestMigrateSeedsDefaults(t *testing.T) {
	cfgPath, _ := writeConfig(t, true)

	out, err := run(t, cfgPath, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Schema is up to date (sqlite)")

	rules := listRules(t, cfgPath)
	require.Len(t, rules, 2)
	assert.Equal(t, model.DataTypeResolvedAlerts, rules[0].DataType)
	assert.Equal(t, 12, rules[0].RetentionMonths)
	assert.Equal(t, model.DataTypeGraduatedStudents, rules[1].DataType)
	assert.Equal(t, 48, rules[1].RetentionMonths)

	// seeding again changes nothing
	out, err = run(t, cfgPath, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "ID  DATA TYPE")
	assert.Len(t, listRules(t, cfgPath), 2)
}

func TestRulesCommands(t *testing.T) {
	cfgPath, _ := writeConfig(t, false)
	_, err := run(t, cfgPath, "migrate")
	require.NoError(t, err)

	out, err := run(t, cfgPath, "rules", "add", "--type", "resolved_alerts", "--months", "6", "-o", "yaml")
	require.NoError(t, err)
	var created model.RetentionRule
	require.NoError(t, yaml.Unmarshal([]byte(out), &created))
	assert.Equal(t, int64(1), created.RuleID)
	assert.Equal(t, model.DataTypeResolvedAlerts, created.DataType)
	assert.True(t, created.IsActive)

	_, err = run(t, cfgPath, "rules", "update", "1", "--months", "18", "--active=false", "--actor", "registrar")
	require.NoError(t, err)
	rules := listRules(t, cfgPath)
	require.Len(t, rules, 1)
	assert.Equal(t, 18, rules[0].RetentionMonths)
	assert.False(t, rules[0].IsActive)

	out, err = run(t, cfgPath, "rules", "delete", "1")
	require.NoError(t, err)
	assert.Equal(t, "Deleted rule 1\n", out)
	assert.Empty(t, listRules(t, cfgPath))

	out, err = run(t, cfgPath, "audit", "-o", "json")
	require.NoError(t, err)
	var logs []model.AuditLog
	require.NoError(t, json.Unmarshal([]byte(out), &logs))
	require.Len(t, logs, 3)
	assert.Equal(t, model.AuditActionDeleteRule, logs[0].Action)
	assert.Equal(t, model.DefaultActor, logs[0].UserID)
	assert.Equal(t, "registrar", logs[1].UserID)
	assert.Equal(t, "Added retention rule for RESOLVED_ALERTS (6m)", logs[2].Details)
}

func TestRulesRejectInvalidInput(t *testing.T) {
	cfgPath, _ := writeConfig(t, false)
	_, err := run(t, cfgPath, "migrate")
	require.NoError(t, err)

	_, err = run(t, cfgPath, "rules", "add", "--type", "GRADUATED_STUDENTS", "--months", "0")
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, 2, exitCode(err))

	_, err = run(t, cfgPath, "rules", "add", "--type", "EMAILS", "--months", "3")
	assert.True(t, apperrors.IsValidation(err))

	_, err = run(t, cfgPath, "rules", "delete", "abc")
	assert.True(t, apperrors.IsValidation(err))

	_, err = run(t, cfgPath, "preview", "42")
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, 1, exitCode(err))

	_, err = run(t, cfgPath, "rules", "list", "-o", "xml")
	assert.True(t, apperrors.IsValidation(err))

	assert.Empty(t, listRules(t, cfgPath))
}

func TestExecuteRequiresConfirmation(t *testing.T) {
	cfgPath, dbPath := writeConfig(t, false)
	_, err := run(t, cfgPath, "migrate")
	require.NoError(t, err)

	db, err := sqlstore.NewDB(config.DatabaseConfig{Driver: "sqlite", Path: dbPath})
	require.NoError(t, err)
	now := time.Now().UTC()
	for _, a := range []struct {
		created  time.Time
		resolved bool
	}{
		{now.AddDate(-2, 0, 0), true},
		{now.AddDate(-2, 0, 0), false},
		{now.AddDate(0, -1, 0), true},
	} {
		_, err := db.ExecContext(context.Background(),
			db.Rebind(`INSERT INTO alert (student_id, alert_type, reason, created_at, resolved) VALUES (?, ?, ?, ?, ?)`),
			"s1", "WELLBEING", "low score", a.created, a.resolved)
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	_, err = run(t, cfgPath, "rules", "add", "--type", "RESOLVED_ALERTS", "--months", "12")
	require.NoError(t, err)

	out, err := run(t, cfgPath, "preview", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "1 records eligible")

	_, err = run(t, cfgPath, "execute", "1")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))

	out, err = run(t, cfgPath, "preview", "1", "-o", "json")
	require.NoError(t, err)
	var p model.Preview
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, 1, p.Count)

	out, err = run(t, cfgPath, "execute", "1", "--yes", "--actor", "registrar", "-o", "json")
	require.NoError(t, err)
	var exec model.Execution
	require.NoError(t, json.Unmarshal([]byte(out), &exec))
	assert.Equal(t, int64(1), exec.Deleted)
	assert.Equal(t, "registrar", exec.PerformedBy)

	out, err = run(t, cfgPath, "preview", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "0 records eligible")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 2, exitCode(apperrors.NewValidation("months must be positive")))
	assert.Equal(t, 2, exitCode(fmt.Errorf("wrapped: %w", apperrors.NewValidation("bad"))))
	assert.Equal(t, 1, exitCode(errors.New("boom")))
}
