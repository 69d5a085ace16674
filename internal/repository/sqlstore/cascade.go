package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/retention-api/internal/model"
	"github.com/jwalitptl/retention-api/internal/repository"
	apperrors "github.com/jwalitptl/retention-api/pkg/errors"
)

// deleteBatchSize bounds the number of ids bound into one IN (...) list.
const deleteBatchSize = 500

type cascadeRepository struct {
	BaseRepository
}

func NewCascadeRepository(base BaseRepository) repository.CascadeRepository {
	return &cascadeRepository{base}
}

// PurgeResolvedAlerts deletes resolved alerts created before the cutoff.
// Alerts have no dependents.
func (r *cascadeRepository) PurgeResolvedAlerts(ctx context.Context, before time.Time) (int64, error) {
	var deleted int64

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := tx.Rebind("DELETE FROM alert WHERE " + resolvedAlertsWhere)
		result, err := tx.ExecContext(ctx, query, resolvedAlertsArgs(before)...)
		if err != nil {
			return fmt.Errorf("delete alert: %w", err)
		}
		deleted, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return 0, apperrors.NewStorage("purge resolved alerts", err)
	}

	return deleted, nil
}

// PurgeGraduatedStudents removes every student whose cohort started before
// cohortBefore together with all rows referencing them. Dependents go first,
// students last, all in one transaction. It returns the number of students
// removed.
func (r *cascadeRepository) PurgeGraduatedStudents(ctx context.Context, cohortBefore int) (int64, error) {
	var deleted int64

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var ids []string
		query := tx.Rebind("SELECT student_id FROM student WHERE " + graduatedStudentsWhere)
		if err := tx.SelectContext(ctx, &ids, query, graduatedStudentsArgs(cohortBefore)...); err != nil {
			return fmt.Errorf("select students: %w", err)
		}

		// An empty id list must never reach an IN clause.
		if len(ids) == 0 {
			return nil
		}

		for _, table := range model.StudentDependents {
			if err := deleteByStudentIDs(ctx, tx, table, ids); err != nil {
				return err
			}
		}
		if err := deleteByStudentIDs(ctx, tx, "student", ids); err != nil {
			return err
		}

		deleted = int64(len(ids))
		return nil
	})
	if err != nil {
		return 0, apperrors.NewStorage("purge graduated students", err)
	}

	return deleted, nil
}

func deleteByStudentIDs(ctx context.Context, tx *sqlx.Tx, table string, ids []string) error {
	for start := 0; start < len(ids); start += deleteBatchSize {
		end := start + deleteBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		query, args, err := sqlx.In("DELETE FROM "+table+" WHERE student_id IN (?)", ids[start:end])
		if err != nil {
			return fmt.Errorf("build delete for %s: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	return nil
}
