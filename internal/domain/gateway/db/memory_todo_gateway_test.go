package db

import (
	"context"
	"testing"
	"time"

	"todo-api/internal/domain/entity"
)

func newClockedMemoryGateway() (*MemoryTodoGateway, *time.Time) {
	gateway := NewMemoryTodoGateway()
	clock := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	gateway.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return gateway, &clock
}

func TestMemoryTodoGatewaySave(t *testing.T) {
	ctx := context.Background()
	gateway, _ := newClockedMemoryGateway()

	created, err := gateway.Save(ctx, &entity.Todo{Title: "write tests"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if created.ID != 1 || created.CreatedAt.IsZero() || !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("unexpected created todo: %+v", created)
	}

	created.Title = "mutated outside"
	stored, _ := gateway.FindByID(ctx, 1)
	if stored.Title != "write tests" {
		t.Fatalf("store must not share memory with callers, got %q", stored.Title)
	}

	stored.Completed = true
	stored.CreatedAt = time.Time{}
	updated, err := gateway.Save(ctx, stored)
	if err != nil {
		t.Fatalf("Save update: %v", err)
	}
	if updated.ID != 1 || !updated.Completed {
		t.Errorf("update not applied: %+v", updated)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("createdAt changed: %v -> %v", created.CreatedAt, updated.CreatedAt)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Errorf("updatedAt not refreshed: %+v", updated)
	}

	second, _ := gateway.Save(ctx, &entity.Todo{Title: "second"})
	if second.ID != 2 {
		t.Errorf("ids must be assigned sequentially, got %d", second.ID)
	}
}

func TestMemoryTodoGatewayQueries(t *testing.T) {
	ctx := context.Background()
	gateway, _ := newClockedMemoryGateway()

	for _, todo := range []entity.Todo{
		{Title: "a", Completed: false},
		{Title: "b", Completed: true},
		{Title: "c", Completed: false},
	} {
		todo := todo
		if _, err := gateway.Save(ctx, &todo); err != nil {
			t.Fatal(err)
		}
	}

	all, _ := gateway.FindAll(ctx)
	if got := titles(all); got != "abc" {
		t.Errorf("FindAll: got %s, want abc", got)
	}

	newest, _ := gateway.FindAllOrderByCreatedAtDesc(ctx)
	if got := titles(newest); got != "cba" {
		t.Errorf("FindAllOrderByCreatedAtDesc: got %s, want cba", got)
	}

	pending, _ := gateway.FindByCompletedOrderByCreatedAtDesc(ctx, false)
	if got := titles(pending); got != "ca" {
		t.Errorf("pending: got %s, want ca", got)
	}

	done, _ := gateway.FindByCompletedOrderByCreatedAtDesc(ctx, true)
	if got := titles(done); got != "b" {
		t.Errorf("done: got %s, want b", got)
	}

	if exists, _ := gateway.ExistsByID(ctx, 2); !exists {
		t.Error("ExistsByID(2) should be true")
	}
	if err := gateway.DeleteByID(ctx, 2); err != nil {
		t.Fatal(err)
	}
	if exists, _ := gateway.ExistsByID(ctx, 2); exists {
		t.Error("ExistsByID(2) should be false after delete")
	}
	if todo, err := gateway.FindByID(ctx, 2); todo != nil || err != nil {
		t.Errorf("FindByID after delete: got %+v, %v", todo, err)
	}
}

func TestMemoryTodoGatewayEmptyListsAreNotNil(t *testing.T) {
	ctx := context.Background()
	gateway := NewMemoryTodoGateway()

	all, _ := gateway.FindAllOrderByCreatedAtDesc(ctx)
	byStatus, _ := gateway.FindByCompletedOrderByCreatedAtDesc(ctx, true)
	if all == nil || byStatus == nil {
		t.Fatal("empty results must be empty slices")
	}
}

func TestMemoryTodoGatewayDeleteCompletedBefore(t *testing.T) {
	ctx := context.Background()
	gateway, clock := newClockedMemoryGateway()

	oldDone, _ := gateway.Save(ctx, &entity.Todo{Title: "old done", Completed: true})
	oldOpen, _ := gateway.Save(ctx, &entity.Todo{Title: "old open"})
	cutoff := clock.Add(time.Millisecond)
	recentDone, _ := gateway.Save(ctx, &entity.Todo{Title: "recent done", Completed: true})

	deleted, err := gateway.DeleteCompletedBefore(ctx, cutoff)
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 1 {
		t.Fatalf("deleted: got %d, want 1", deleted)
	}
	for id, want := range map[int64]bool{oldDone.ID: false, oldOpen.ID: true, recentDone.ID: true} {
		if exists, _ := gateway.ExistsByID(ctx, id); exists != want {
			t.Errorf("todo %d exists=%v, want %v", id, exists, want)
		}
	}
}

func titles(todos []entity.Todo) string {
	var s string
	for _, todo := range todos {
		s += todo.Title
	}
	return s
}
