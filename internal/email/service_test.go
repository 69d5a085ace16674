package email

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/retention-api/internal/model"
)

type captureSender struct {
	messages []*gomail.Message
	err      error
}

func (s *captureSender) DialAndSend(m ...*gomail.Message) error {
	s.messages = append(s.messages, m...)
	return s.err
}

func testExecution() *model.Execution {
	return &model.Execution{
		Rule:        &model.RetentionRule{RuleID: 2, DataType: model.DataTypeGraduatedStudents, RetentionMonths: 48, IsActive: true},
		Cutoff:      model.Cutoff{DataType: model.DataTypeGraduatedStudents, Year: 2018},
		Deleted:     7,
		PerformedBy: "registrar",
		ExecutedAt:  time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestService_NotifyExecution(t *testing.T) {
	sender := &captureSender{}
	svc := NewServiceWithSender(sender, "retention@example.ac.uk", []string{"dpo@example.ac.uk"})

	require.NoError(t, svc.NotifyExecution(context.Background(), testExecution()))
	require.Len(t, sender.messages, 1)

	msg := sender.messages[0]
	assert.Equal(t, []string{"retention@example.ac.uk"}, msg.GetHeader("From"))
	assert.Equal(t, []string{"dpo@example.ac.uk"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"[retention] GRADUATED_STUDENTS: 7 records removed"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "cohorts before 2018")
	assert.Contains(t, buf.String(), "registrar")
}

func TestService_NotifyExecutionSendFailure(t *testing.T) {
	sender := &captureSender{err: errors.New("535 auth failed")}
	svc := NewServiceWithSender(sender, "retention@example.ac.uk", []string{"dpo@example.ac.uk"})

	err := svc.NotifyExecution(context.Background(), testExecution())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "535 auth failed")
}

func TestNewService_RequiresHostAndRecipients(t *testing.T) {
	_, err := NewService(Config{To: []string{"a@example.ac.uk"}})
	assert.Error(t, err)

	_, err = NewService(Config{Host: "smtp.example.ac.uk"})
	assert.Error(t, err)

	svc, err := NewService(Config{Host: "smtp.example.ac.uk", Port: 587, To: []string{"a@example.ac.uk"}})
	require.NoError(t, err)
	assert.Equal(t, "email", svc.Name())
}
