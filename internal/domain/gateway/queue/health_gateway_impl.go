package queue

import (
	"context"
	"strconv"
	"sync"
	"time"

	"todo-api/internal/domain/model"
)

type QueueHealthGateway struct {
	publishers map[string]Pinger
	mutex      sync.RWMutex
}

var _ HealthGateway = (*QueueHealthGateway)(nil)

func NewQueueHealthGateway() *QueueHealthGateway {
	return &QueueHealthGateway{
		publishers: make(map[string]Pinger),
	}
}

func (gateway *QueueHealthGateway) RegisterPublisher(name string, publisher Pinger) {
	gateway.mutex.Lock()
	defer gateway.mutex.Unlock()
	gateway.publishers[name] = publisher
}

func (gateway *QueueHealthGateway) UnregisterPublisher(name string) {
	gateway.mutex.Lock()
	defer gateway.mutex.Unlock()
	delete(gateway.publishers, name)
}

func (gateway *QueueHealthGateway) Health(ctx context.Context) model.ComponentHealthStatus {
	gateway.mutex.RLock()
	defer gateway.mutex.RUnlock()

	if len(gateway.publishers) == 0 {
		return model.ComponentHealthStatus{
			Status: model.StatusUnknown,
			Details: map[string]string{
				"message":          "No event publishers registered",
				"publishers_count": "0",
			},
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	overallStatus := model.StatusUp
	details := make(map[string]string)
	publishersUp := 0

	for name, publisher := range gateway.publishers {
		if err := publisher.Ping(ctx); err != nil {
			overallStatus = model.StatusDown
			details[name+"_status"] = string(model.StatusDown)
			details[name+"_message"] = err.Error()
			continue
		}
		publishersUp++
		details[name+"_status"] = string(model.StatusUp)
	}

	details["publishers_total"] = strconv.Itoa(len(gateway.publishers))
	details["publishers_up"] = strconv.Itoa(publishersUp)
	details["publishers_down"] = strconv.Itoa(len(gateway.publishers) - publishersUp)

	return model.ComponentHealthStatus{
		Status:  overallStatus,
		Details: details,
	}
}
