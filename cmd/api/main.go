package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/blood-drive-service/internal/api/http"
	"github.com/spec-kit/blood-drive-service/internal/api/http/handlers"
	"github.com/spec-kit/blood-drive-service/internal/auth"
	"github.com/spec-kit/blood-drive-service/internal/config"
	"github.com/spec-kit/blood-drive-service/internal/events"
	"github.com/spec-kit/blood-drive-service/internal/observability"
	"github.com/spec-kit/blood-drive-service/internal/persistence"
	"github.com/spec-kit/blood-drive-service/internal/repository"
	"github.com/spec-kit/blood-drive-service/internal/service"
	"github.com/spec-kit/blood-drive-service/internal/worker"
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

	if cfg.Postgres.RunMigrations && pg.PoolHandle() != nil {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var donorRepo repository.DonorRepository
	var activityRepo repository.ActivityRepository
	if pool := pg.PoolHandle(); pool != nil {
		donorRepo = repository.NewPostgresDonorRepository(pool)
		activityRepo = repository.NewPostgresActivityRepository(pool)
	} else {
		logger.Warn("running with in-memory store; data will not survive restarts")
		store := repository.NewMemoryStore()
		donorRepo = store
		activityRepo = store
	}

	dispatcher := events.NewInMemoryDispatcher()

	registrationService := service.NewRegistrationService(service.RegistrationDependencies{
		DonorRepo:  donorRepo,
		Dispatcher: dispatcher,
	})
	dashboardService := service.NewDashboardService(service.DashboardDependencies{
		DonorRepo:     donorRepo,
		ActivityRepo:  activityRepo,
		Cache:         redis,
		CacheTTL:      cfg.Dashboard.CacheTTL(),
		ActivityLimit: cfg.Dashboard.DefaultActivityLimit,
	}, logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)

	authService, err := service.NewAuthService(cfg.Auth)
	if err != nil {
		logger.Fatal("failed to init auth service", zap.Error(err))
	}
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())

	worker.StartEventWorkers(dispatcher, notificationService, dashboardService)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Registrations:  handlers.NewRegistrationsHandler(registrationService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
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
