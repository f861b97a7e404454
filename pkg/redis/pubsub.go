package redis

import (
	"context"
	"encoding/json"
	"fmt"
)

// Publisher handles Redis publishing operations
type Publisher struct {
	client    *Client
	namespace string
}

// NewPublisher creates a new publisher. Channels are prefixed as namespace::channel when namespace is set.
func NewPublisher(client *Client, namespace string) *Publisher {
	return &Publisher{
		client:    client,
		namespace: namespace,
	}
}

// ChannelName constructs the full channel name using namespace::channel format
func (p *Publisher) ChannelName(channel string) string {
	if p.namespace != "" {
		return p.namespace + "::" + channel
	}
	return channel
}

// Publish publishes a raw message to a channel
func (p *Publisher) Publish(ctx context.Context, channel string, message interface{}) error {
	return p.client.Publish(ctx, p.ChannelName(channel), message)
}

// PublishJSON publishes a JSON message to a channel
func (p *Publisher) PublishJSON(ctx context.Context, channel string, message interface{}) error {
	jsonData, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message to JSON: %w", err)
	}
	return p.client.Publish(ctx, p.ChannelName(channel), jsonData)
}
