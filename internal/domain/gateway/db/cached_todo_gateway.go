package db

import (
	"context"
	"strconv"
	"time"

	"todo-api/internal/domain/entity"
	"todo-api/pkg/log"
	"todo-api/pkg/msg"
	"todo-api/pkg/redis"

	"go.uber.org/zap"
)

// TodoCacheName namespaces cached todos as todos::<id>
const TodoCacheName = "todos"

// CachedTodoGateway caches FindByID results in Redis around another TodoGateway.
// Cache failures are logged and never surface to the caller.
type CachedTodoGateway struct {
	next  TodoGateway
	cache *redis.Cache
}

var _ TodoGateway = (*CachedTodoGateway)(nil)

func NewCachedTodoGateway(next TodoGateway, client *redis.Client) *CachedTodoGateway {
	return &CachedTodoGateway{
		next:  next,
		cache: redis.NewCache(client, redis.NewCacheOptions().WithCacheName(TodoCacheName)),
	}
}

type bypassCacheKey struct{}

// WithoutCache marks ctx so FindByID reads the wrapped gateway and leaves the
// cache untouched. Read-modify-write paths use it to start from the stored row.
func WithoutCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, bypassCacheKey{}, true)
}

func cacheBypassed(ctx context.Context) bool {
	bypass, _ := ctx.Value(bypassCacheKey{}).(bool)
	return bypass
}

func cacheKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (gateway *CachedTodoGateway) evict(ctx context.Context, id int64) {
	if err := gateway.cache.Delete(ctx, cacheKey(id)); err != nil {
		log.Warn(msg.GetMessage("todo.cache.evict-failed", gateway.cache.Key(cacheKey(id))), zap.Error(err))
	}
}

func (gateway *CachedTodoGateway) Save(ctx context.Context, todo *entity.Todo) (*entity.Todo, error) {
	saved, err := gateway.next.Save(ctx, todo)
	if err != nil {
		return nil, err
	}
	gateway.evict(ctx, saved.ID)
	return saved, nil
}

func (gateway *CachedTodoGateway) FindByID(ctx context.Context, id int64) (*entity.Todo, error) {
	if cacheBypassed(ctx) {
		return gateway.next.FindByID(ctx, id)
	}

	var cached entity.Todo
	found, err := gateway.cache.Get(ctx, cacheKey(id), &cached)
	if err != nil {
		log.Warn(msg.GetMessage("todo.cache.read-failed", gateway.cache.Key(cacheKey(id))), zap.Error(err))
	}
	if found {
		return &cached, nil
	}

	todo, err := gateway.next.FindByID(ctx, id)
	if err != nil || todo == nil {
		return todo, err
	}

	if err := gateway.cache.Set(ctx, cacheKey(id), todo); err != nil {
		log.Warn(msg.GetMessage("todo.cache.write-failed", gateway.cache.Key(cacheKey(id))), zap.Error(err))
	}
	return todo, nil
}

func (gateway *CachedTodoGateway) FindAll(ctx context.Context) ([]entity.Todo, error) {
	return gateway.next.FindAll(ctx)
}

func (gateway *CachedTodoGateway) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return gateway.next.ExistsByID(ctx, id)
}

func (gateway *CachedTodoGateway) DeleteByID(ctx context.Context, id int64) error {
	if err := gateway.next.DeleteByID(ctx, id); err != nil {
		return err
	}
	gateway.evict(ctx, id)
	return nil
}

func (gateway *CachedTodoGateway) FindAllOrderByCreatedAtDesc(ctx context.Context) ([]entity.Todo, error) {
	return gateway.next.FindAllOrderByCreatedAtDesc(ctx)
}

func (gateway *CachedTodoGateway) FindByCompletedOrderByCreatedAtDesc(ctx context.Context, completed bool) ([]entity.Todo, error) {
	return gateway.next.FindByCompletedOrderByCreatedAtDesc(ctx, completed)
}

func (gateway *CachedTodoGateway) DeleteCompletedBefore(ctx context.Context, before time.Time) (int64, error) {
	deleted, err := gateway.next.DeleteCompletedBefore(ctx, before)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		if err := gateway.cache.Clear(ctx, "*"); err != nil {
			log.Warn(msg.GetMessage("todo.cache.evict-failed", gateway.cache.Key("*")), zap.Error(err))
		}
	}
	return deleted, nil
}
