package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "todo-api/docs"
	"todo-api/internal/application/controller"
	"todo-api/internal/application/middleware"
	"todo-api/internal/application/schedule"
	"todo-api/internal/domain/usecase/health"
	"todo-api/internal/domain/usecase/todo"
	"todo-api/internal/infra/database"
	"todo-api/internal/infra/server"
	"todo-api/pkg/log"
	"todo-api/pkg/msg"
	"todo-api/pkg/resource"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

// @title todo-api
// @version 1.0
// @description CRUD REST API for a todo list
// @BasePath /api
func main() {
	log.Info(msg.GetMessage("app.start"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()

	if err != nil {
		log.Error(msg.GetMessage("app.failed"), zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
	log.Sync()
}

func run(ctx context.Context) error {
	// Init infra
	store, err := initDatabase(ctx, database.ConfigFromProperties())
	if err != nil {
		return err
	}
	defer store.close()

	redisClient, err := initRedis(ctx)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	// Init Gateways
	todoGateway := withCache(store.todoGateway, redisClient)
	cacheHealthGateway := cacheHealth(redisClient)
	eventGateway, queueHealthGateway, err := initEvents(ctx, redisClient)
	if err != nil {
		return err
	}

	// Init UseCase
	todoUseCase := todo.NewTodoUseCase(todoGateway, eventGateway)
	healthUseCase := health.NewHealthUseCase(store.healthGateway, cacheHealthGateway, queueHealthGateway)

	// Init Routes
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	middleware.SetupDefaults(e, resource.GetString("app.cors.allowed-origin"))
	middleware.SetupRequestLogger(e)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group(resource.GetString("app.server.context-path"))
	limiter, err := initRateLimiter(redisClient)
	if err != nil {
		return err
	}
	if limiter != nil {
		api.Use(middleware.RateLimit(limiter))
	}

	controller.NewHealthController(api, healthUseCase).InitHealthRoutes()
	controller.NewTodoController(api, todoUseCase).InitTodoRoutes()

	// Init Schedule
	purgeScheduler := schedule.NewTodoPurgeScheduler(todoUseCase, redisClient, schedule.PurgeConfigFromProperties())
	if err := purgeScheduler.InitTodoPurgeScheduleTasks(); err != nil {
		return err
	}
	defer func() {
		if err := purgeScheduler.Shutdown(); err != nil {
			log.Warn(msg.GetMessage("todo.purge.failed"), zap.Error(err))
		}
	}()

	// Start Routes
	serverConfig := server.ConfigFromProperties()
	e.Listener, err = server.Listen(serverConfig)
	if err != nil {
		return err
	}
	serverErr := make(chan error, 1)
	go func() {
		log.Info(msg.GetMessage("app.started", serverConfig.Port))
		if err := e.Start(serverConfig.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info(msg.GetMessage("app.stopping"))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), resource.GetDuration("app.server.shutdown-timeout"))
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error(msg.GetMessage("app.shutdown-failed"), zap.Error(err))
	}
	log.Info(msg.GetMessage("app.stopped"))
	return nil
}
