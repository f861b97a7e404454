package queue

import (
	"context"
	"fmt"

	"todo-api/internal/domain/model"
	"todo-api/pkg/redis"
)

// RedisTodoEventGateway publishes events as JSON on a namespaced pub/sub channel
type RedisTodoEventGateway struct {
	client    *redis.Client
	publisher *redis.Publisher
	channel   string
}

var _ TodoEventGateway = (*RedisTodoEventGateway)(nil)

func NewRedisTodoEventGateway(client *redis.Client, namespace string, channel string) *RedisTodoEventGateway {
	return &RedisTodoEventGateway{
		client:    client,
		publisher: redis.NewPublisher(client, namespace),
		channel:   channel,
	}
}

func (gateway *RedisTodoEventGateway) Publish(ctx context.Context, event model.TodoEvent) error {
	if err := gateway.publisher.PublishJSON(ctx, gateway.channel, event); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

// Channel returns the fully qualified channel name subscribers listen on
func (gateway *RedisTodoEventGateway) Channel() string {
	return gateway.publisher.ChannelName(gateway.channel)
}

func (gateway *RedisTodoEventGateway) Ping(ctx context.Context) error {
	return gateway.client.Ping(ctx)
}
