package main

import (
	"context"
	"errors"
	"time"

	"todo-api/pkg/http"
	"todo-api/pkg/log"
	"todo-api/pkg/todoclient"

	"go.uber.org/zap"
)

// Runs the full todo lifecycle against a local todo-api (go run ./cmd/todo-api with DB_DRIVER=memory)
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := todoclient.New("http://localhost:8080/api", http.ClientOptions{
		ReadTimeout: 5 * time.Second,
		Backoff:     http.NewBackoffConfig(),
		Logger:      http.NewZapHTTPLogger(),
	})

	created, err := client.CreateTodo(ctx, todoclient.TodoRequest{Title: "Buy milk", Description: "2 liters"})
	if err != nil {
		log.Fatal("create failed", zap.Error(err))
	}
	log.Info("created", zap.Int64("id", created.ID), zap.Time("createdAt", created.CreatedAt))

	updated, err := client.UpdateTodo(ctx, created.ID, todoclient.TodoRequest{Title: "Buy oat milk", Description: created.Description})
	if err != nil {
		log.Fatal("update failed", zap.Error(err))
	}
	log.Info("updated", zap.String("title", updated.Title))

	toggled, err := client.ToggleTodoStatus(ctx, created.ID)
	if err != nil {
		log.Fatal("toggle failed", zap.Error(err))
	}
	log.Info("toggled", zap.Bool("completed", toggled.Completed))

	done, err := client.GetTodosByStatus(ctx, true)
	if err != nil {
		log.Fatal("list by status failed", zap.Error(err))
	}
	log.Info("completed todos", zap.Int("count", len(done)))

	all, err := client.GetAllTodos(ctx)
	if err != nil {
		log.Fatal("list failed", zap.Error(err))
	}
	for _, todo := range all {
		log.Info("todo", zap.Int64("id", todo.ID), zap.String("title", todo.Title), zap.Bool("completed", todo.Completed))
	}

	// invalid bodies come back as APIError with the server message
	var apiErr *todoclient.APIError
	if _, err := client.CreateTodo(ctx, todoclient.TodoRequest{Title: " "}); errors.As(err, &apiErr) {
		log.Info("rejected", zap.Int("status", apiErr.StatusCode), zap.String("error", apiErr.Message))
	}

	if err := client.DeleteTodo(ctx, created.ID); err != nil {
		log.Fatal("delete failed", zap.Error(err))
	}
	if _, err := client.GetTodoByID(ctx, created.ID); errors.Is(err, todoclient.ErrNotFound) {
		log.Info("deleted", zap.Int64("id", created.ID))
	}
}
