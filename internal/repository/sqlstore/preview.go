package sqlstore

import (
	"context"
	"time"

	"github.com/jwalitptl/retention-api/internal/model"
	"github.com/jwalitptl/retention-api/internal/repository"
	apperrors "github.com/jwalitptl/retention-api/pkg/errors"
)

type previewRepository struct {
	BaseRepository
}

func NewPreviewRepository(base BaseRepository) repository.PreviewRepository {
	return &previewRepository{base}
}

func (r *previewRepository) ResolvedAlerts(ctx context.Context, before time.Time) ([]*model.Alert, error) {
	query := r.db.Rebind(
		"SELECT " + alertColumns + " FROM alert WHERE " + resolvedAlertsWhere + " ORDER BY alert_id",
	)

	alerts := []*model.Alert{}
	if err := r.db.SelectContext(ctx, &alerts, query, resolvedAlertsArgs(before)...); err != nil {
		return nil, apperrors.NewStorage("preview resolved alerts", err)
	}
	return alerts, nil
}

func (r *previewRepository) GraduatedStudents(ctx context.Context, cohortBefore int) ([]*model.Student, error) {
	query := r.db.Rebind(
		"SELECT " + studentColumns + " FROM student WHERE " + graduatedStudentsWhere + " ORDER BY student_id",
	)

	students := []*model.Student{}
	if err := r.db.SelectContext(ctx, &students, query, graduatedStudentsArgs(cohortBefore)...); err != nil {
		return nil, apperrors.NewStorage("preview graduated students", err)
	}
	return students, nil
}
