package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"todo-api/internal/domain/usecase/todo"
	"todo-api/pkg/log"
	"todo-api/pkg/msg"
	"todo-api/pkg/redis"
	"todo-api/pkg/resource"

	"github.com/go-co-op/gocron/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const purgeJobName = "todo-purge"

// PurgeConfig holds the app.todo.purge properties
type PurgeConfig struct {
	Enabled   bool
	Cron      string
	Retention time.Duration
	LockTTL   time.Duration
}

func PurgeConfigFromProperties() PurgeConfig {
	return PurgeConfig{
		Enabled:   resource.GetBool("app.todo.purge.enabled"),
		Cron:      resource.GetString("app.todo.purge.cron"),
		Retention: resource.GetDuration("app.todo.purge.retention"),
		LockTTL:   resource.GetDuration("app.todo.purge.lock-ttl"),
	}
}

// TodoPurgeScheduler periodically deletes completed todos older than the retention.
// With a redis client every run is guarded by a distributed lock so only one replica purges.
type TodoPurgeScheduler struct {
	scheduler   gocron.Scheduler
	useCase     todo.UseCase
	redisClient *redis.Client
	config      PurgeConfig
}

func NewTodoPurgeScheduler(useCase todo.UseCase, redisClient *redis.Client, config PurgeConfig) *TodoPurgeScheduler {
	return &TodoPurgeScheduler{
		useCase:     useCase,
		redisClient: redisClient,
		config:      config,
	}
}

// InitTodoPurgeScheduleTasks validates the cron expression and starts the scheduler
func (s *TodoPurgeScheduler) InitTodoPurgeScheduleTasks() error {
	if !s.config.Enabled {
		log.Info(msg.GetMessage("todo.purge.disabled"))
		return nil
	}

	schedule, err := cron.ParseStandard(s.config.Cron)
	if err != nil {
		return fmt.Errorf("invalid purge cron %q: %w", s.config.Cron, err)
	}
	if s.config.Retention <= 0 {
		return fmt.Errorf("invalid purge retention %v: must be positive", s.config.Retention)
	}

	var options []gocron.SchedulerOption
	if s.redisClient != nil {
		options = append(options, gocron.WithDistributedLocker(NewRedisLocker(s.redisClient, s.config.LockTTL)))
	}

	scheduler, err := gocron.NewScheduler(options...)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.CronJob(s.config.Cron, false),
		gocron.NewTask(s.Purge),
		gocron.WithName(purgeJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return fmt.Errorf("failed to schedule purge job: %w", err)
	}

	s.scheduler = scheduler
	s.scheduler.Start()

	log.Info(msg.GetMessage("todo.purge.scheduled", s.config.Cron, schedule.Next(time.Now()).Format(time.RFC3339)))
	return nil
}

// Purge runs one purge pass
func (s *TodoPurgeScheduler) Purge(ctx context.Context) {
	if _, err := s.useCase.PurgeCompleted(ctx, s.config.Retention); err != nil {
		log.Error(msg.GetMessage("todo.purge.failed"), zap.Error(err))
	}
}

// Shutdown stops the scheduler, waiting for a running purge to finish
func (s *TodoPurgeScheduler) Shutdown() error {
	if s.scheduler == nil {
		return nil
	}
	return s.scheduler.Shutdown()
}

// Jobs lists the scheduled jobs, empty when the purge is disabled
func (s *TodoPurgeScheduler) Jobs() []gocron.Job {
	if s.scheduler == nil {
		return nil
	}
	return s.scheduler.Jobs()
}

// RedisLocker implements gocron.Locker with pkg/redis locks under the "schedules" namespace
type RedisLocker struct {
	client  *redis.Client
	lockTTL time.Duration
}

var _ gocron.Locker = (*RedisLocker)(nil)

func NewRedisLocker(client *redis.Client, lockTTL time.Duration) *RedisLocker {
	if lockTTL <= 0 {
		lockTTL = 5 * time.Minute
	}
	return &RedisLocker{client: client, lockTTL: lockTTL}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (gocron.Lock, error) {
	lock := redis.NewLock(l.client, key, redis.NewLockOptions().
		WithTTL(l.lockTTL).
		WithMaxRetries(0).
		WithLockNamespace("schedules"))

	if err := lock.TryLock(ctx); err != nil {
		if errors.Is(err, redis.ErrLockNotAcquired) {
			log.Info(msg.GetMessage("todo.purge.skipped"), zap.String("lock", lock.Key()))
		}
		return nil, err
	}
	return lock, nil
}
