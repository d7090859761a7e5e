package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/solar-ticketing/internal/api/http"
	"github.com/spec-kit/solar-ticketing/internal/api/http/handlers"
	"github.com/spec-kit/solar-ticketing/internal/auth"
	"github.com/spec-kit/solar-ticketing/internal/config"
	"github.com/spec-kit/solar-ticketing/internal/engine"
	"github.com/spec-kit/solar-ticketing/internal/events"
	"github.com/spec-kit/solar-ticketing/internal/observability"
	"github.com/spec-kit/solar-ticketing/internal/persistence"
	"github.com/spec-kit/solar-ticketing/internal/repository"
	"github.com/spec-kit/solar-ticketing/internal/service"
	"github.com/spec-kit/solar-ticketing/internal/worker"
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
	ticketRepo := repository.NewTicketRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	catalogRepo := repository.NewCatalogRepository(pool)

	lifecycleEngine := engine.New(engine.Config{
		TerminalStatuses: cfg.Engine.TerminalStatuses,
	}, logger)

	dispatcher := events.NewInMemoryDispatcher()

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		AuditRepo:  auditRepo,
		Engine:     lifecycleEngine,
		Dispatcher: dispatcher,
	})
	snapshotService := service.NewSnapshotService(ticketRepo, lifecycleEngine, redis, cfg.Engine.StatsCacheTTL(), logger)
	snapshotService.SubscribeInvalidation(dispatcher)
	reportService := service.NewReportService(snapshotService, lifecycleEngine)
	authService := service.NewAuthService(cfg.Auth, userRepo)
	notificationService := service.NewNotificationService(dispatcher, logger)

	worker.StartSnapshotWorker(ctx, snapshotService, cfg.Engine.SnapshotRefreshInterval(), logger)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService, snapshotService, lifecycleEngine),
		Dashboard:      handlers.NewDashboardHandler(snapshotService),
		Reports:        handlers.NewReportsHandler(reportService),
		Catalog:        handlers.NewCatalogHandler(catalogRepo),
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
