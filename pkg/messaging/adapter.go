package messaging

import (
	"context"
	"fmt"

	"github.com/jwalitptl/retention-api/internal/model"
)

// ExecutionPublisher announces completed retention runs on a broker channel.
type ExecutionPublisher struct {
	broker  Broker
	channel string
}

func NewExecutionPublisher(broker Broker, channel string) *ExecutionPublisher {
	return &ExecutionPublisher{broker: broker, channel: channel}
}

func (p *ExecutionPublisher) Name() string {
	return "broker"
}

func (p *ExecutionPublisher) NotifyExecution(ctx context.Context, exec *model.Execution) error {
	msg := Message{
		Type:    EventRetentionExecuted,
		Payload: exec,
	}
	if err := p.broker.Publish(ctx, p.channel, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", EventRetentionExecuted, err)
	}
	return nil
}

func (p *ExecutionPublisher) Close() error {
	return p.broker.Close()
}
