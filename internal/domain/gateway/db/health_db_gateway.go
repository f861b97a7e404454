package db

import (
	"context"

	"todo-api/internal/domain/model"
)

type HealthDBGateway interface {
	Health(ctx context.Context) model.ComponentHealthStatus
}

func downStatus(err error) model.ComponentHealthStatus {
	return model.ComponentHealthStatus{
		Status: model.StatusDown,
		Details: map[string]string{
			"message": err.Error(),
		},
	}
}

func upStatus(driver string) model.ComponentHealthStatus {
	return model.ComponentHealthStatus{
		Status: model.StatusUp,
		Details: map[string]string{
			"message": string(model.StatusUp),
			"driver":  driver,
		},
	}
}

// MemoryHealthDBGateway reports the in-process store, which is always reachable
type MemoryHealthDBGateway struct{}

var _ HealthDBGateway = MemoryHealthDBGateway{}

func (MemoryHealthDBGateway) Health(context.Context) model.ComponentHealthStatus {
	return upStatus("memory")
}
