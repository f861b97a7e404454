package health

import (
	"context"
	"testing"

	"todo-api/internal/domain/gateway/cache"
	"todo-api/internal/domain/gateway/db"
	"todo-api/internal/domain/gateway/queue"
	"todo-api/internal/domain/model"
)

type staticDB model.HealthStatus

func (s staticDB) Health(context.Context) model.ComponentHealthStatus {
	return model.ComponentHealthStatus{Status: model.HealthStatus(s)}
}

type staticCache model.HealthStatus

func (s staticCache) Health(context.Context) model.ComponentHealthStatus {
	return model.ComponentHealthStatus{Status: model.HealthStatus(s)}
}

type failingPublisher struct{}

func (failingPublisher) Ping(context.Context) error { return context.DeadlineExceeded }

func TestCheckHealth(t *testing.T) {
	downQueue := queue.NewQueueHealthGateway()
	downQueue.RegisterPublisher("sqs", failingPublisher{})

	tests := []struct {
		name  string
		db    db.HealthDBGateway
		cache cache.HealthCacheGateway
		queue queue.HealthGateway
		want  model.HealthStatus
	}{
		{"memory store, optional parts disabled", db.MemoryHealthDBGateway{}, cache.DisabledHealthCacheGateway{}, queue.NewQueueHealthGateway(), model.StatusUp},
		{"database down", staticDB(model.StatusDown), cache.DisabledHealthCacheGateway{}, queue.NewQueueHealthGateway(), model.StatusDown},
		{"cache down", staticDB(model.StatusUp), staticCache(model.StatusDown), queue.NewQueueHealthGateway(), model.StatusDown},
		{"queue down", staticDB(model.StatusUp), staticCache(model.StatusUp), downQueue, model.StatusDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewHealthUseCase(tt.db, tt.cache, tt.queue).CheckHealth(context.Background())
			if got.Status != tt.want {
				t.Errorf("status: got %s, want %s (%+v)", got.Status, tt.want, got)
			}
		})
	}
}
