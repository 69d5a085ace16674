package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/retention-api/internal/config"
	"github.com/jwalitptl/retention-api/internal/email"
	"github.com/jwalitptl/retention-api/internal/repository"
	"github.com/jwalitptl/retention-api/internal/repository/sqlstore"
	"github.com/jwalitptl/retention-api/internal/service/audit"
	"github.com/jwalitptl/retention-api/internal/service/retention"
	"github.com/jwalitptl/retention-api/pkg/logger"
	"github.com/jwalitptl/retention-api/pkg/messaging"
	"github.com/jwalitptl/retention-api/pkg/messaging/redis"
	"github.com/jwalitptl/retention-api/pkg/metrics"
)

// App holds the wired retention engine shared by the API server and the CLI.
type App struct {
	DB        *sqlx.DB
	Rules     repository.RetentionRuleRepository
	Audit     *audit.Service
	Retention *retention.Service
	Metrics   *metrics.Metrics
	Logger    *logger.Logger

	closers []func() error
}

type Option func(*options)

type options struct {
	now     func() time.Time
	migrate bool
}

// WithClock fixes the clock used for eligibility.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithMigrate creates missing tables before anything else runs.
func WithMigrate() Option {
	return func(o *options) { o.migrate = true }
}

// NewLogger builds the application logger from the log section.
func NewLogger(cfg config.LogConfig) *logger.Logger {
	return logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Level),
		TimeFormat: time.RFC3339,
		JSON:       cfg.Format == "json",
	})
}

func New(ctx context.Context, cfg *config.Config, log *logger.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sqlstore.NewDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	a := &App{
		DB:      db,
		Metrics: metrics.NewMetrics("retention_api"),
		Logger:  log,
		closers: []func() error{db.Close},
	}

	if o.migrate {
		if err := sqlstore.Migrate(ctx, db); err != nil {
			a.Close()
			return nil, err
		}
	}

	base := sqlstore.NewBaseRepository(db)
	a.Rules = sqlstore.NewRetentionRuleRepository(base)
	a.Audit = audit.NewService(sqlstore.NewAuditRepository(base), log)

	if cfg.Retention.SeedDefaults {
		if err := a.Rules.SeedDefaults(ctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to seed default rules: %w", err)
		}
	}

	svcOpts := []retention.Option{
		retention.WithLogger(log),
		retention.WithMetrics(a.Metrics),
		retention.WithProgramLength(cfg.Retention.ProgramLengthMonths),
		retention.WithNotifier(a.notifiers(cfg)...),
	}
	if o.now != nil {
		svcOpts = append(svcOpts, retention.WithClock(o.now))
	}

	a.Retention = retention.NewService(
		a.Rules,
		sqlstore.NewPreviewRepository(base),
		sqlstore.NewCascadeRepository(base),
		a.Audit,
		svcOpts...,
	)

	return a, nil
}

// notifiers returns the execution notifiers that are configured. A notifier
// that cannot be set up is logged and skipped.
func (a *App) notifiers(cfg *config.Config) []retention.Notifier {
	var out []retention.Notifier

	if cfg.Redis.URL != "" {
		broker, err := redis.NewRedisBroker(redis.Config{URL: cfg.Redis.URL}, a.Logger.Zerolog())
		if err != nil {
			a.Logger.Error(err, "redis notifications disabled")
		} else {
			pub := messaging.NewExecutionPublisher(broker, cfg.Redis.Channel)
			a.closers = append(a.closers, pub.Close)
			out = append(out, pub)
		}
	}

	if cfg.Notify.SMTPHost != "" {
		mailer, err := email.NewService(email.Config{
			Host:     cfg.Notify.SMTPHost,
			Port:     cfg.Notify.SMTPPort,
			Username: cfg.Notify.SMTPUser,
			Password: cfg.Notify.SMTPPassword,
			From:     cfg.Notify.From,
			To:       cfg.Notify.To,
		})
		if err != nil {
			a.Logger.Error(err, "email notifications disabled")
		} else {
			out = append(out, mailer)
		}
	}

	return out
}

func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}
