package todo

import (
	"context"
	"errors"
	"time"

	"todo-api/internal/domain/entity"
	"todo-api/internal/domain/model"
)

// ErrTodoNotFound is returned by operations addressing an id with no stored todo
var ErrTodoNotFound = errors.New("todo not found")

type UseCase interface {
	// FindAll returns every todo, newest first
	FindAll(ctx context.Context) ([]entity.Todo, error)
	FindByID(ctx context.Context, id int64) (*entity.Todo, error)
	Create(ctx context.Context, dto model.TodoDTO) (*entity.Todo, error)
	// Update copies title, description and completed onto the stored todo
	Update(ctx context.Context, id int64, dto model.TodoDTO) (*entity.Todo, error)
	// Toggle flips the completed flag
	Toggle(ctx context.Context, id int64) (*entity.Todo, error)
	Delete(ctx context.Context, id int64) error
	// FindByStatus returns todos with the given completed flag, newest first
	FindByStatus(ctx context.Context, completed bool) ([]entity.Todo, error)
	// PurgeCompleted deletes completed todos last updated more than olderThan ago
	PurgeCompleted(ctx context.Context, olderThan time.Duration) (int64, error)
}
