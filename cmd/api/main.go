package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/acadtrack/query-portal/internal/api/http"
	"github.com/acadtrack/query-portal/internal/api/http/handlers"
	"github.com/acadtrack/query-portal/internal/auth"
	"github.com/acadtrack/query-portal/internal/config"
	"github.com/acadtrack/query-portal/internal/events"
	"github.com/acadtrack/query-portal/internal/observability"
	"github.com/acadtrack/query-portal/internal/persistence"
	"github.com/acadtrack/query-portal/internal/repository"
	"github.com/acadtrack/query-portal/internal/routing"
	"github.com/acadtrack/query-portal/internal/service"
	"github.com/acadtrack/query-portal/internal/storage"
	"github.com/acadtrack/query-portal/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	queryRepo := repository.NewQueryRepository(pool)

	directory := routing.NewDirectory()
	dispatcher := events.NewInMemoryDispatcher()
	attachmentStore := storage.NewAttachmentStore(cfg.Upload.Dir)

	authService := service.NewAuthService(cfg.Auth, userRepo)
	adminService := service.NewAdminService(cfg.Auth, adminRepo, directory)
	queryService := service.NewQueryService(cfg.Upload, service.QueryDependencies{
		QueryRepo:  queryRepo,
		UserRepo:   userRepo,
		Store:      attachmentStore,
		Cache:      redis.ClientHandle(),
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	departmentService := service.NewDepartmentService(cfg.Auth, userRepo, queryRepo, directory)
	teamService := service.NewTeamService(cfg.Auth, userRepo)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo, adminRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: int(cfg.Upload.MaxAttachmentBytes()) + 1024*1024,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Admin:          handlers.NewAdminHandler(adminService),
		Queries:        handlers.NewQueriesHandler(queryService),
		Departments:    handlers.NewDepartmentsHandler(departmentService),
		Team:           handlers.NewTeamHandler(teamService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
