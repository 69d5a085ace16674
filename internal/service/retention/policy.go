package retention

import (
	"context"
	"time"

	"github.com/jwalitptl/retention-api/internal/model"
	"github.com/jwalitptl/retention-api/internal/repository"
	apperrors "github.com/jwalitptl/retention-api/pkg/errors"
)

// policy binds a data type to its cutoff arithmetic and to the preview and
// purge queries that share its predicate.
type policy struct {
	cutoff  func(now time.Time, months, programMonths int) model.Cutoff
	preview func(ctx context.Context, repo repository.PreviewRepository, c model.Cutoff, out *model.Preview) error
	purge   func(ctx context.Context, repo repository.CascadeRepository, c model.Cutoff) (int64, error)
}

var policies = map[model.DataType]policy{
	model.DataTypeResolvedAlerts: {
		cutoff: resolvedAlertsCutoff,
		preview: func(ctx context.Context, repo repository.PreviewRepository, c model.Cutoff, out *model.Preview) error {
			alerts, err := repo.ResolvedAlerts(ctx, c.Before)
			if err != nil {
				return err
			}
			out.Alerts = alerts
			out.Count = len(alerts)
			return nil
		},
		purge: func(ctx context.Context, repo repository.CascadeRepository, c model.Cutoff) (int64, error) {
			return repo.PurgeResolvedAlerts(ctx, c.Before)
		},
	},
	model.DataTypeGraduatedStudents: {
		cutoff: graduatedStudentsCutoff,
		preview: func(ctx context.Context, repo repository.PreviewRepository, c model.Cutoff, out *model.Preview) error {
			students, err := repo.GraduatedStudents(ctx, c.Year)
			if err != nil {
				return err
			}
			out.Students = students
			out.Count = len(students)
			return nil
		},
		purge: func(ctx context.Context, repo repository.CascadeRepository, c model.Cutoff) (int64, error) {
			return repo.PurgeGraduatedStudents(ctx, c.Year)
		},
	},
}

func policyFor(dataType model.DataType) (policy, error) {
	p, ok := policies[dataType]
	if !ok {
		return policy{}, apperrors.NewUnsupportedRuleType(string(dataType))
	}
	return p, nil
}
