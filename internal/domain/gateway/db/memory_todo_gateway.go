package db

import (
	"context"
	"sort"
	"sync"
	"time"

	"todo-api/internal/domain/entity"
)

// MemoryTodoGateway keeps todos in process memory. Every value crossing the
// gateway boundary is a copy.
type MemoryTodoGateway struct {
	mutex  sync.RWMutex
	todos  map[int64]entity.Todo
	nextID int64
	now    func() time.Time
}

var _ TodoGateway = (*MemoryTodoGateway)(nil)

func NewMemoryTodoGateway() *MemoryTodoGateway {
	return &MemoryTodoGateway{
		todos: make(map[int64]entity.Todo),
		now:   time.Now,
	}
}

func (gateway *MemoryTodoGateway) Save(_ context.Context, todo *entity.Todo) (*entity.Todo, error) {
	gateway.mutex.Lock()
	defer gateway.mutex.Unlock()

	now := gateway.now()
	saved := *todo
	if saved.ID == 0 {
		gateway.nextID++
		saved.ID = gateway.nextID
		saved.CreatedAt = now
	} else if existing, ok := gateway.todos[saved.ID]; ok {
		saved.CreatedAt = existing.CreatedAt
	} else if saved.CreatedAt.IsZero() {
		saved.CreatedAt = now
	}
	saved.UpdatedAt = now

	gateway.todos[saved.ID] = saved
	*todo = saved
	return &saved, nil
}

func (gateway *MemoryTodoGateway) FindByID(_ context.Context, id int64) (*entity.Todo, error) {
	gateway.mutex.RLock()
	defer gateway.mutex.RUnlock()

	todo, ok := gateway.todos[id]
	if !ok {
		return nil, nil
	}
	return &todo, nil
}

func (gateway *MemoryTodoGateway) FindAll(_ context.Context) ([]entity.Todo, error) {
	todos := gateway.filter(func(entity.Todo) bool { return true })
	sort.Slice(todos, func(i, j int) bool { return todos[i].ID < todos[j].ID })
	return todos, nil
}

func (gateway *MemoryTodoGateway) ExistsByID(_ context.Context, id int64) (bool, error) {
	gateway.mutex.RLock()
	defer gateway.mutex.RUnlock()

	_, ok := gateway.todos[id]
	return ok, nil
}

func (gateway *MemoryTodoGateway) DeleteByID(_ context.Context, id int64) error {
	gateway.mutex.Lock()
	defer gateway.mutex.Unlock()

	delete(gateway.todos, id)
	return nil
}

func (gateway *MemoryTodoGateway) FindAllOrderByCreatedAtDesc(_ context.Context) ([]entity.Todo, error) {
	todos := gateway.filter(func(entity.Todo) bool { return true })
	sortNewestFirst(todos)
	return todos, nil
}

func (gateway *MemoryTodoGateway) FindByCompletedOrderByCreatedAtDesc(_ context.Context, completed bool) ([]entity.Todo, error) {
	todos := gateway.filter(func(todo entity.Todo) bool { return todo.Completed == completed })
	sortNewestFirst(todos)
	return todos, nil
}

func (gateway *MemoryTodoGateway) DeleteCompletedBefore(_ context.Context, before time.Time) (int64, error) {
	gateway.mutex.Lock()
	defer gateway.mutex.Unlock()

	var deleted int64
	for id, todo := range gateway.todos {
		if todo.Completed && todo.UpdatedAt.Before(before) {
			delete(gateway.todos, id)
			deleted++
		}
	}
	return deleted, nil
}

func (gateway *MemoryTodoGateway) filter(keep func(entity.Todo) bool) []entity.Todo {
	gateway.mutex.RLock()
	defer gateway.mutex.RUnlock()

	todos := make([]entity.Todo, 0, len(gateway.todos))
	for _, todo := range gateway.todos {
		if keep(todo) {
			todos = append(todos, todo)
		}
	}
	return todos
}

func sortNewestFirst(todos []entity.Todo) {
	sort.Slice(todos, func(i, j int) bool {
		if !todos[i].CreatedAt.Equal(todos[j].CreatedAt) {
			return todos[i].CreatedAt.After(todos[j].CreatedAt)
		}
		return todos[i].ID > todos[j].ID
	})
}
