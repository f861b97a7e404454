package todo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"todo-api/internal/domain/entity"
	"todo-api/internal/domain/gateway/db"
	"todo-api/internal/domain/gateway/queue"
	"todo-api/internal/domain/model"
	"todo-api/pkg/log"
	"todo-api/pkg/msg"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type todoUseCase struct {
	gateway      db.TodoGateway
	eventGateway queue.TodoEventGateway
	now          func() time.Time
}

func NewTodoUseCase(gateway db.TodoGateway, eventGateway queue.TodoEventGateway) UseCase {
	if eventGateway == nil {
		eventGateway = queue.NoopTodoEventGateway{}
	}
	return &todoUseCase{
		gateway:      gateway,
		eventGateway: eventGateway,
		now:          time.Now,
	}
}

func (uc *todoUseCase) FindAll(ctx context.Context) ([]entity.Todo, error) {
	return uc.gateway.FindAllOrderByCreatedAtDesc(ctx)
}

func (uc *todoUseCase) FindByID(ctx context.Context, id int64) (*entity.Todo, error) {
	todo, err := uc.gateway.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find todo %d: %w", id, err)
	}
	if todo == nil {
		return nil, ErrTodoNotFound
	}
	return todo, nil
}

func (uc *todoUseCase) Create(ctx context.Context, dto model.TodoDTO) (*entity.Todo, error) {
	created, err := uc.gateway.Save(ctx, &entity.Todo{
		Title:       dto.Title,
		Description: dto.Description,
		Completed:   dto.Completed,
	})
	if err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}

	uc.publish(ctx, model.TodoCreated, created.ID, created)
	return created, nil
}

func (uc *todoUseCase) Update(ctx context.Context, id int64, dto model.TodoDTO) (*entity.Todo, error) {
	todo, err := uc.FindByID(db.WithoutCache(ctx), id)
	if err != nil {
		return nil, err
	}

	todo.Title = dto.Title
	todo.Description = dto.Description
	todo.Completed = dto.Completed

	updated, err := uc.gateway.Save(ctx, todo)
	if err != nil {
		return nil, fmt.Errorf("update todo %d: %w", id, err)
	}

	uc.publish(ctx, model.TodoUpdated, updated.ID, updated)
	return updated, nil
}

func (uc *todoUseCase) Toggle(ctx context.Context, id int64) (*entity.Todo, error) {
	// toggling a cached copy could write back a flag another request already flipped
	todo, err := uc.FindByID(db.WithoutCache(ctx), id)
	if err != nil {
		return nil, err
	}

	todo.Completed = !todo.Completed

	toggled, err := uc.gateway.Save(ctx, todo)
	if err != nil {
		return nil, fmt.Errorf("toggle todo %d: %w", id, err)
	}

	uc.publish(ctx, model.TodoToggled, toggled.ID, toggled)
	return toggled, nil
}

func (uc *todoUseCase) Delete(ctx context.Context, id int64) error {
	exists, err := uc.gateway.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("check todo %d: %w", id, err)
	}
	if !exists {
		return ErrTodoNotFound
	}

	if err := uc.gateway.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete todo %d: %w", id, err)
	}

	uc.publish(ctx, model.TodoDeleted, id, nil)
	return nil
}

func (uc *todoUseCase) FindByStatus(ctx context.Context, completed bool) ([]entity.Todo, error) {
	return uc.gateway.FindByCompletedOrderByCreatedAtDesc(ctx, completed)
}

func (uc *todoUseCase) PurgeCompleted(ctx context.Context, olderThan time.Duration) (int64, error) {
	before := uc.now().Add(-olderThan)
	log.Info(msg.GetMessage("todo.purge.start", before.Format(time.RFC3339)))

	deleted, err := uc.gateway.DeleteCompletedBefore(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("purge completed todos: %w", err)
	}
	log.Info(msg.GetMessage("todo.purge.end", deleted))

	if deleted > 0 {
		event := uc.newEvent(model.TodoPurged, 0, nil)
		event.Count = deleted
		uc.send(ctx, event)
	}
	return deleted, nil
}

func (uc *todoUseCase) newEvent(eventType model.TodoEventType, todoID int64, todo *entity.Todo) model.TodoEvent {
	return model.TodoEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		TodoID:     todoID,
		Todo:       todo,
		OccurredAt: uc.now().UTC(),
	}
}

func (uc *todoUseCase) publish(ctx context.Context, eventType model.TodoEventType, todoID int64, todo *entity.Todo) {
	uc.send(ctx, uc.newEvent(eventType, todoID, todo))
}

// send never fails the caller; the write it reports has already been committed
func (uc *todoUseCase) send(ctx context.Context, event model.TodoEvent) {
	if err := uc.eventGateway.Publish(ctx, event); err != nil {
		log.Warn(msg.GetMessage("todo.event.publish-failed", string(event.Type), strconv.FormatInt(event.TodoID, 10)),
			zap.String("eventId", event.ID),
			zap.Error(err))
	}
}
