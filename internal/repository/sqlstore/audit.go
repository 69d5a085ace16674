package sqlstore

import (
	"context"

	"github.com/jwalitptl/retention-api/internal/model"
	"github.com/jwalitptl/retention-api/internal/repository"
	apperrors "github.com/jwalitptl/retention-api/pkg/errors"
)

type auditRepository struct {
	BaseRepository
}

func NewAuditRepository(base BaseRepository) repository.AuditRepository {
	return &auditRepository{base}
}

func (r *auditRepository) Create(ctx context.Context, log *model.AuditLog) error {
	query := r.db.Rebind(`
		INSERT INTO audit_log (user_id, action, details, timestamp)
		VALUES (?, ?, ?, ?)
		RETURNING log_id
	`)

	if err := r.db.GetContext(ctx, &log.LogID, query,
		log.UserID,
		log.Action,
		log.Details,
		log.Timestamp.UTC(),
	); err != nil {
		return apperrors.NewStorage("create audit log", err)
	}
	return nil
}

// Recent returns the newest entries first.
func (r *auditRepository) Recent(ctx context.Context, limit int) ([]*model.AuditLog, error) {
	if limit <= 0 {
		limit = model.DefaultAuditListLimit
	}

	query := r.db.Rebind(`
		SELECT log_id, user_id, action, details, timestamp
		FROM audit_log
		ORDER BY timestamp DESC, log_id DESC
		LIMIT ?
	`)

	logs := []*model.AuditLog{}
	if err := r.db.SelectContext(ctx, &logs, query, limit); err != nil {
		return nil, apperrors.NewStorage("list audit logs", err)
	}
	return logs, nil
}
