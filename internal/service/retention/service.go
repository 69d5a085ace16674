package retention

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/retention-api/internal/model"
	"github.com/jwalitptl/retention-api/internal/repository"
	"github.com/jwalitptl/retention-api/internal/service/audit"
	"github.com/jwalitptl/retention-api/pkg/logger"
	"github.com/jwalitptl/retention-api/pkg/metrics"
)

// Notifier is told about every execution that deleted data. Delivery
// failures are logged and never fail the execution.
type Notifier interface {
	Name() string
	NotifyExecution(ctx context.Context, exec *model.Execution) error
}

// Servicer is the surface the HTTP handlers and the CLI depend on.
type Servicer interface {
	ListRules(ctx context.Context) ([]*model.RetentionRule, error)
	GetRule(ctx context.Context, id int64) (*model.RetentionRule, error)
	CreateRule(ctx context.Context, dataType model.DataType, months int, active bool, performedBy string) (*model.RetentionRule, error)
	UpdateRule(ctx context.Context, id int64, months int, active bool, performedBy string) (*model.RetentionRule, error)
	DeleteRule(ctx context.Context, id int64, performedBy string) error
	Preview(ctx context.Context, id int64) (*model.Preview, error)
	ExecuteRule(ctx context.Context, id int64, performedBy string) (*model.Execution, error)
}

var _ Servicer = (*Service)(nil)

type Service struct {
	rules         repository.RetentionRuleRepository
	preview       repository.PreviewRepository
	cascade       repository.CascadeRepository
	auditor       audit.Sink
	now           func() time.Time
	programMonths int
	logger        *logger.Logger
	metrics       *metrics.Metrics
	notifiers     []Notifier
}

type Option func(*Service)

// WithClock replaces the wall clock used for eligibility.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithProgramLength(months int) Option {
	return func(s *Service) {
		if months > 0 {
			s.programMonths = months
		}
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithNotifier(n ...Notifier) Option {
	return func(s *Service) { s.notifiers = append(s.notifiers, n...) }
}

func NewService(
	rules repository.RetentionRuleRepository,
	preview repository.PreviewRepository,
	cascade repository.CascadeRepository,
	auditor audit.Sink,
	opts ...Option,
) *Service {
	s := &Service{
		rules:         rules,
		preview:       preview,
		cascade:       cascade,
		auditor:       auditor,
		now:           time.Now,
		programMonths: DefaultProgramLengthMonths,
		logger:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) ListRules(ctx context.Context) ([]*model.RetentionRule, error) {
	rules, err := s.rules.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	return rules, nil
}

func (s *Service) GetRule(ctx context.Context, id int64) (*model.RetentionRule, error) {
	rule, err := s.rules.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get rule %d: %w", id, err)
	}
	return rule, nil
}

func (s *Service) CreateRule(ctx context.Context, dataType model.DataType, months int, active bool, performedBy string) (*model.RetentionRule, error) {
	rule := &model.RetentionRule{
		DataType:        dataType,
		RetentionMonths: months,
		IsActive:        active,
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.rules.Create(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to create rule: %w", err)
	}

	s.auditor.Log(ctx, performedBy, model.AuditActionCreateRule,
		fmt.Sprintf("Added retention rule for %s (%dm)", rule.DataType, rule.RetentionMonths))
	s.countRuleChange(model.AuditActionCreateRule)

	return rule, nil
}

func (s *Service) UpdateRule(ctx context.Context, id int64, months int, active bool, performedBy string) (*model.RetentionRule, error) {
	if err := model.ValidateMonths(months); err != nil {
		return nil, err
	}

	rule := &model.RetentionRule{
		RuleID:          id,
		RetentionMonths: months,
		IsActive:        active,
	}
	if err := s.rules.Update(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to update rule %d: %w", id, err)
	}

	s.auditor.Log(ctx, performedBy, model.AuditActionUpdateRule,
		fmt.Sprintf("Updated rule %d -> %dm, Active:%t", id, months, active))
	s.countRuleChange(model.AuditActionUpdateRule)

	updated, err := s.rules.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload rule %d: %w", id, err)
	}
	return updated, nil
}

// DeleteRule removes the rule only; the data it targeted is untouched.
func (s *Service) DeleteRule(ctx context.Context, id int64, performedBy string) error {
	if err := s.rules.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete rule %d: %w", id, err)
	}

	s.auditor.Log(ctx, performedBy, model.AuditActionDeleteRule, fmt.Sprintf("Deleted rule %d", id))
	s.countRuleChange(model.AuditActionDeleteRule)
	return nil
}

// Preview lists the records Execute would remove right now, without
// modifying anything. Inactive rules can be previewed.
func (s *Service) Preview(ctx context.Context, id int64) (*model.Preview, error) {
	rule, err := s.GetRule(ctx, id)
	if err != nil {
		return nil, err
	}

	cutoff, err := ComputeCutoff(rule, s.now(), s.programMonths)
	if err != nil {
		return nil, err
	}

	p := policies[rule.DataType]
	result := &model.Preview{Rule: rule, Cutoff: cutoff}
	if err := p.preview(ctx, s.preview, cutoff, result); err != nil {
		return nil, fmt.Errorf("failed to preview rule %d: %w", id, err)
	}

	if s.metrics != nil {
		s.metrics.PreviewedRecords.WithLabelValues(rule.DataType.String()).Set(float64(result.Count))
	}
	s.logger.Zerolog().Info().
		Int64("rule_id", rule.RuleID).
		Str("data_type", rule.DataType.String()).
		Int("count", result.Count).
		Msg("retention preview")

	return result, nil
}

// Execute permanently deletes the records the rule makes eligible and
// returns how many root records were removed. An inactive rule deletes
// nothing and returns 0.
func (s *Service) Execute(ctx context.Context, id int64, performedBy string) (int64, error) {
	exec, err := s.ExecuteRule(ctx, id, performedBy)
	if err != nil {
		return 0, err
	}
	return exec.Deleted, nil
}

// ExecuteRule is Execute with the full execution summary.
func (s *Service) ExecuteRule(ctx context.Context, id int64, performedBy string) (*model.Execution, error) {
	rule, err := s.GetRule(ctx, id)
	if err != nil {
		return nil, err
	}
	if performedBy == "" {
		performedBy = model.DefaultActor
	}

	now := s.now()
	exec := &model.Execution{
		Rule:        rule,
		PerformedBy: performedBy,
		ExecutedAt:  now,
	}

	if !rule.IsActive {
		s.logger.Zerolog().Warn().
			Int64("rule_id", rule.RuleID).
			Str("data_type", rule.DataType.String()).
			Msg("skipping inactive retention rule")
		s.observeExecution(rule.DataType, "skipped", 0, time.Time{})
		return exec, nil
	}

	exec.Cutoff, err = ComputeCutoff(rule, now, s.programMonths)
	if err != nil {
		return nil, err
	}

	p := policies[rule.DataType]
	start := time.Now()
	deleted, err := p.purge(ctx, s.cascade, exec.Cutoff)
	if err != nil {
		s.observeExecution(rule.DataType, "failed", 0, start)
		return nil, fmt.Errorf("failed to execute rule %d: %w", id, err)
	}
	exec.Deleted = deleted

	s.auditor.Log(ctx, performedBy, model.AuditActionExecuteRetention,
		fmt.Sprintf("Rule %s (%dm) cleaned %d records", rule.DataType, rule.RetentionMonths, deleted))
	s.observeExecution(rule.DataType, "success", deleted, start)

	s.logger.Zerolog().Info().
		Int64("rule_id", rule.RuleID).
		Str("data_type", rule.DataType.String()).
		Int64("deleted", deleted).
		Str("performed_by", performedBy).
		Msg("retention executed")

	if deleted > 0 {
		s.notify(ctx, exec)
	}
	return exec, nil
}

func (s *Service) notify(ctx context.Context, exec *model.Execution) {
	for _, n := range s.notifiers {
		if err := n.NotifyExecution(ctx, exec); err != nil {
			s.logger.Zerolog().Error().
				Err(err).
				Str("notifier", n.Name()).
				Int64("rule_id", exec.Rule.RuleID).
				Msg("failed to send execution notification")
			if s.metrics != nil {
				s.metrics.NotificationFails.WithLabelValues(n.Name()).Inc()
			}
		}
	}
}

func (s *Service) observeExecution(dataType model.DataType, status string, deleted int64, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.Executions.WithLabelValues(dataType.String(), status).Inc()
	if deleted > 0 {
		s.metrics.RecordsPurged.WithLabelValues(dataType.String()).Add(float64(deleted))
	}
	if !start.IsZero() {
		s.metrics.ExecutionLatency.WithLabelValues(dataType.String()).Observe(time.Since(start).Seconds())
	}
}

func (s *Service) countRuleChange(action string) {
	if s.metrics != nil {
		s.metrics.RuleChanges.WithLabelValues(action).Inc()
	}
}
