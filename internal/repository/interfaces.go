package repository

import (
	"context"
	"time"

	"github.com/jwalitptl/retention-api/internal/model"
)

// All repository interfaces in one file
type (
	// RetentionRuleRepository persists retention rule definitions.
	RetentionRuleRepository interface {
		Create(ctx context.Context, rule *model.RetentionRule) (int64, error)
		Get(ctx context.Context, id int64) (*model.RetentionRule, error)
		List(ctx context.Context) ([]*model.RetentionRule, error)
		Update(ctx context.Context, rule *model.RetentionRule) error
		Delete(ctx context.Context, id int64) error
		SeedDefaults(ctx context.Context) error
	}

	// PreviewRepository reads retention candidates without mutating anything.
	PreviewRepository interface {
		ResolvedAlerts(ctx context.Context, before time.Time) ([]*model.Alert, error)
		GraduatedStudents(ctx context.Context, cohortBefore int) ([]*model.Student, error)
	}

	// CascadeRepository deletes retention candidates, each call in one transaction.
	CascadeRepository interface {
		PurgeResolvedAlerts(ctx context.Context, before time.Time) (int64, error)
		PurgeGraduatedStudents(ctx context.Context, cohortBefore int) (int64, error)
	}

	AuditRepository interface {
		Create(ctx context.Context, log *model.AuditLog) error
		Recent(ctx context.Context, limit int) ([]*model.AuditLog, error)
	}
)
