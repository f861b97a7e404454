package model

import (
	"time"

	"todo-api/internal/domain/entity"
)

// TodoEventType names the change a TodoEvent reports
type TodoEventType string

const (
	TodoCreated TodoEventType = "TODO_CREATED"
	TodoUpdated TodoEventType = "TODO_UPDATED"
	TodoToggled TodoEventType = "TODO_TOGGLED"
	TodoDeleted TodoEventType = "TODO_DELETED"
	TodoPurged  TodoEventType = "TODO_PURGED"
)

// TodoEvent is published after every successful write on the todo store.
// Todo is nil for deletions and purges; Count is only set for purges.
type TodoEvent struct {
	ID         string        `json:"id"`
	Type       TodoEventType `json:"type"`
	TodoID     int64         `json:"todoId,omitempty"`
	Todo       *entity.Todo  `json:"todo,omitempty"`
	Count      int64         `json:"count,omitempty"`
	OccurredAt time.Time     `json:"occurredAt"`
}
