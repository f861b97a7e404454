package queue

import (
	"context"
	"errors"

	"todo-api/internal/domain/model"
)

// TodoEventGateway publishes todo change notifications
type TodoEventGateway interface {
	Publish(ctx context.Context, event model.TodoEvent) error
}

// NoopTodoEventGateway discards every event; used when no transport is enabled
type NoopTodoEventGateway struct{}

var _ TodoEventGateway = NoopTodoEventGateway{}

func (NoopTodoEventGateway) Publish(context.Context, model.TodoEvent) error {
	return nil
}

// CompositeTodoEventGateway fans an event out to every gateway. All gateways are
// tried; their errors are joined.
type CompositeTodoEventGateway struct {
	gateways []TodoEventGateway
}

var _ TodoEventGateway = (*CompositeTodoEventGateway)(nil)

func NewCompositeTodoEventGateway(gateways ...TodoEventGateway) *CompositeTodoEventGateway {
	return &CompositeTodoEventGateway{gateways: gateways}
}

func (gateway *CompositeTodoEventGateway) Publish(ctx context.Context, event model.TodoEvent) error {
	var errs []error
	for _, next := range gateway.gateways {
		if err := next.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len reports how many gateways receive events
func (gateway *CompositeTodoEventGateway) Len() int {
	return len(gateway.gateways)
}
