package cache

import (
	"context"

	"todo-api/internal/domain/model"
	"todo-api/pkg/redis"
)

type HealthCacheGateway interface {
	Health(ctx context.Context) model.ComponentHealthStatus
}

type RedisHealthCacheGateway struct {
	client *redis.Client
}

var _ HealthCacheGateway = (*RedisHealthCacheGateway)(nil)

func NewRedisHealthCacheGateway(client *redis.Client) *RedisHealthCacheGateway {
	return &RedisHealthCacheGateway{client: client}
}

func (gateway *RedisHealthCacheGateway) Health(ctx context.Context) model.ComponentHealthStatus {
	check := gateway.client.HealthCheck(ctx)

	status := model.StatusDown
	if check.Status == redis.StatusUp {
		status = model.StatusUp
	}
	return model.ComponentHealthStatus{
		Status:  status,
		Details: check.Details,
	}
}

// DisabledHealthCacheGateway reports a cache switched off by configuration
type DisabledHealthCacheGateway struct{}

var _ HealthCacheGateway = DisabledHealthCacheGateway{}

func (DisabledHealthCacheGateway) Health(context.Context) model.ComponentHealthStatus {
	return model.DisabledComponent()
}
