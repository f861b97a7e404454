package main

import (
	"context"
	"fmt"
	"time"

	"todo-api/internal/domain/gateway/cache"
	"todo-api/internal/domain/gateway/db"
	"todo-api/internal/domain/gateway/queue"
	"todo-api/internal/infra/aws"
	"todo-api/internal/infra/database"
	gormdb "todo-api/internal/infra/database/gorm"
	"todo-api/internal/infra/database/sqlc"
	"todo-api/pkg/log"
	"todo-api/pkg/msg"
	"todo-api/pkg/redis"
	"todo-api/pkg/resource"
	"todo-api/pkg/sqs"

	"go.uber.org/zap"
)

type todoStore struct {
	todoGateway   db.TodoGateway
	healthGateway db.HealthDBGateway
	close         func()
}

// initDatabase opens the store selected by app.db.driver
func initDatabase(ctx context.Context, cfg database.Config) (*todoStore, error) {
	switch cfg.Driver {
	case database.DriverGorm:
		conn, err := gormdb.Connect(cfg)
		if err != nil {
			return nil, err
		}
		return &todoStore{
			todoGateway:   db.NewGormTodoGateway(conn),
			healthGateway: db.NewGormHealthDBGateway(conn),
			close:         func() { _ = gormdb.Close(conn) },
		}, nil
	case database.DriverSQL:
		conn, err := sqlc.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &todoStore{
			todoGateway:   db.NewSQLCTodoGateway(conn),
			healthGateway: db.NewSQLCHealthDBGateway(conn),
			close:         func() { _ = conn.Close() },
		}, nil
	case database.DriverMemory:
		log.Info(msg.GetMessage("app.db.connected", database.DriverMemory))
		return &todoStore{
			todoGateway:   db.NewMemoryTodoGateway(),
			healthGateway: db.MemoryHealthDBGateway{},
			close:         func() {},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// initRedis returns nil when redis is disabled
func initRedis(ctx context.Context) (*redis.Client, error) {
	if !resource.GetBool("app.redis.enabled") {
		return nil, nil
	}

	config := redis.NewRedisConfig().
		WithHost(resource.GetString("app.redis.host")).
		WithPort(resource.GetInt("app.redis.port")).
		WithPassword(resource.GetString("app.redis.password")).
		WithDatabase(resource.GetInt("app.redis.database")).
		WithCacheTTL(db.TodoCacheName, resource.GetDuration("app.cache.todos.ttl"))

	client, err := redis.NewClient(config)
	if err != nil {
		return nil, err
	}

	// an unreachable redis at startup is not fatal, every redis consumer degrades on errors
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		log.Warn(msg.GetMessage("app.redis.unavailable", config.Addr()), zap.Error(err))
	} else {
		log.Info(msg.GetMessage("app.redis.connected", config.Addr()))
	}
	return client, nil
}

func withCache(gateway db.TodoGateway, redisClient *redis.Client) db.TodoGateway {
	if redisClient == nil {
		return gateway
	}
	return db.NewCachedTodoGateway(gateway, redisClient)
}

func cacheHealth(redisClient *redis.Client) cache.HealthCacheGateway {
	if redisClient == nil {
		return cache.DisabledHealthCacheGateway{}
	}
	return cache.NewRedisHealthCacheGateway(redisClient)
}

// initEvents builds the todo event publishers and registers each one for health checks
func initEvents(ctx context.Context, redisClient *redis.Client) (queue.TodoEventGateway, queue.HealthGateway, error) {
	healthGateway := queue.NewQueueHealthGateway()
	var publishers []queue.TodoEventGateway

	if resource.GetBool("app.events.sqs.enabled") {
		sqsClient, err := aws.NewSqsClient(ctx, aws.SettingsFromProperties())
		if err != nil {
			return nil, nil, err
		}
		queueName := resource.GetString("app.events.sqs.queue-name")
		gateway := queue.NewSQSTodoEventGateway(sqs.NewSender(sqsClient), queueName)
		publishers = append(publishers, gateway)
		healthGateway.RegisterPublisher("sqs", gateway)
		log.Info(msg.GetMessage("app.events.enabled", "sqs", queueName))
	}

	if redisClient != nil && resource.GetBool("app.events.redis.enabled") {
		gateway := queue.NewRedisTodoEventGateway(redisClient,
			resource.GetString("app.events.redis.namespace"),
			resource.GetString("app.events.redis.channel"))
		publishers = append(publishers, gateway)
		healthGateway.RegisterPublisher("redis", gateway)
		log.Info(msg.GetMessage("app.events.enabled", "redis", gateway.Channel()))
	}

	switch len(publishers) {
	case 0:
		return queue.NoopTodoEventGateway{}, healthGateway, nil
	case 1:
		return publishers[0], healthGateway, nil
	default:
		return queue.NewCompositeTodoEventGateway(publishers...), healthGateway, nil
	}
}

// initRateLimiter returns nil when redis is disabled or no limit is configured
func initRateLimiter(redisClient *redis.Client) (*redis.RateLimiter, error) {
	rpm := resource.GetInt64("app.rate-limit.requests-per-minute")
	if redisClient == nil || rpm <= 0 {
		return nil, nil
	}
	return redis.NewRateLimiter(redisClient, redis.NewRateLimiterOptions().
		WithLimit(rpm).
		WithWindow(time.Minute).
		WithNamespace("rate-limit"))
}
