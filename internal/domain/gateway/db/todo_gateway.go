package db

import (
	"context"
	"time"

	"todo-api/internal/domain/entity"
)

// TodoGateway is the persistence port for todo items.
// FindByID returns nil, nil when the record does not exist.
type TodoGateway interface {
	Save(ctx context.Context, todo *entity.Todo) (*entity.Todo, error)
	FindByID(ctx context.Context, id int64) (*entity.Todo, error)
	FindAll(ctx context.Context) ([]entity.Todo, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	DeleteByID(ctx context.Context, id int64) error

	FindAllOrderByCreatedAtDesc(ctx context.Context) ([]entity.Todo, error)
	FindByCompletedOrderByCreatedAtDesc(ctx context.Context, completed bool) ([]entity.Todo, error)

	// DeleteCompletedBefore removes completed todos last updated before the given instant
	// and returns how many rows were deleted.
	DeleteCompletedBefore(ctx context.Context, before time.Time) (int64, error)
}
