package queue

import (
	"context"

	"todo-api/pkg/sqs"
)

// Sender is the queue transport used by SQSTodoEventGateway, implemented by *sqs.Sender
type Sender interface {
	SendMessage(ctx context.Context, queueName string, message sqs.Message) error
	Ping(ctx context.Context, queueName string) error
}

var _ Sender = (*sqs.Sender)(nil)
