package email

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/retention-api/internal/model"
)

// Sender delivers a composed message. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// Service mails a summary of every retention execution to the configured
// recipients.
type Service struct {
	sender Sender
	from   string
	to     []string
}

func NewService(cfg Config) (*Service, error) {
	if cfg.Host == "" {
		return nil, errors.New("smtp host is required")
	}
	if len(cfg.To) == 0 {
		return nil, errors.New("at least one recipient is required")
	}
	return NewServiceWithSender(gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), cfg.From, cfg.To), nil
}

func NewServiceWithSender(sender Sender, from string, to []string) *Service {
	return &Service{sender: sender, from: from, to: to}
}

func (s *Service) Name() string {
	return "email"
}

func (s *Service) NotifyExecution(ctx context.Context, exec *model.Execution) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to...)
	m.SetHeader("Subject", executionSubject(exec))
	m.SetBody("text/plain", executionBody(exec))

	if err := s.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send execution summary: %w", err)
	}
	return nil
}

func executionSubject(exec *model.Execution) string {
	return fmt.Sprintf("[retention] %s: %d records removed", exec.Rule.DataType, exec.Deleted)
}

func executionBody(exec *model.Execution) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rule:        %d\n", exec.Rule.RuleID)
	fmt.Fprintf(&b, "Data type:   %s\n", exec.Rule.DataType)
	fmt.Fprintf(&b, "Retention:   %d months\n", exec.Rule.RetentionMonths)
	if exec.Cutoff.Year != 0 {
		fmt.Fprintf(&b, "Cutoff:      cohorts before %d\n", exec.Cutoff.Year)
	} else {
		fmt.Fprintf(&b, "Cutoff:      created before %s\n", exec.Cutoff.Before.Format("2006-01-02 15:04:05 MST"))
	}
	fmt.Fprintf(&b, "Deleted:     %d\n", exec.Deleted)
	fmt.Fprintf(&b, "Executed by: %s\n", exec.PerformedBy)
	fmt.Fprintf(&b, "Executed at: %s\n", exec.ExecutedAt.Format("2006-01-02 15:04:05 MST"))
	return b.String()
}
