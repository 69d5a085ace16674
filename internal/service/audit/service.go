package audit

import (
	"context"
	"time"

	"github.com/jwalitptl/retention-api/internal/model"
	"github.com/jwalitptl/retention-api/internal/repository"
	"github.com/jwalitptl/retention-api/pkg/logger"
)

// Sink records who did what. Implementations never fail the caller: a
// write that cannot be persisted is logged and dropped.
type Sink interface {
	Log(ctx context.Context, actor, action, details string)
}

type Service struct {
	repo   repository.AuditRepository
	logger *logger.Logger
	now    func() time.Time
}

func NewService(repo repository.AuditRepository, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:   repo,
		logger: log,
		now:    time.Now,
	}
}

// Log creates an audit log entry. An empty actor is recorded as the default actor.
func (s *Service) Log(ctx context.Context, actor, action, details string) {
	if actor == "" {
		actor = model.DefaultActor
	}

	entry := &model.AuditLog{
		UserID:    actor,
		Action:    action,
		Details:   details,
		Timestamp: s.now().UTC(),
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Zerolog().Error().
			Err(err).
			Str("actor", actor).
			Str("action", action).
			Str("details", details).
			Msg("failed to write audit log")
	}
}

// Recent returns up to limit entries, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]*model.AuditLog, error) {
	if limit <= 0 {
		limit = model.DefaultAuditListLimit
	}
	return s.repo.Recent(ctx, limit)
}
