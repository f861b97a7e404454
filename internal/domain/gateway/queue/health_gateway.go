package queue

import (
	"context"

	"todo-api/internal/domain/model"
)

type HealthGateway interface {
	Health(ctx context.Context) model.ComponentHealthStatus
	RegisterPublisher(name string, publisher Pinger)
	UnregisterPublisher(name string)
}

// Pinger is implemented by event gateways that can check their transport
type Pinger interface {
	Ping(ctx context.Context) error
}
