package queue

import (
	"context"
	"fmt"

	"todo-api/internal/domain/model"
	"todo-api/pkg/sqs"
)

type SQSTodoEventGateway struct {
	sender    Sender
	queueName string
}

var _ TodoEventGateway = (*SQSTodoEventGateway)(nil)

func NewSQSTodoEventGateway(sender Sender, queueName string) *SQSTodoEventGateway {
	return &SQSTodoEventGateway{sender: sender, queueName: queueName}
}

func (gateway *SQSTodoEventGateway) Publish(ctx context.Context, event model.TodoEvent) error {
	err := gateway.sender.SendMessage(ctx, gateway.queueName, sqs.Message{
		ID:         event.ID,
		Body:       event,
		Attributes: map[string]string{"eventType": string(event.Type)},
	})
	if err != nil {
		return fmt.Errorf("sqs: %w", err)
	}
	return nil
}

// Ping checks the configured queue is reachable
func (gateway *SQSTodoEventGateway) Ping(ctx context.Context) error {
	return gateway.sender.Ping(ctx, gateway.queueName)
}
