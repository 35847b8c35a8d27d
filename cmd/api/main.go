package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/uap-campus/campus-fixer/internal/api/http"
	"github.com/uap-campus/campus-fixer/internal/api/http/handlers"
	"github.com/uap-campus/campus-fixer/internal/auth"
	"github.com/uap-campus/campus-fixer/internal/config"
	"github.com/uap-campus/campus-fixer/internal/events"
	"github.com/uap-campus/campus-fixer/internal/observability"
	"github.com/uap-campus/campus-fixer/internal/persistence"
	"github.com/uap-campus/campus-fixer/internal/repository"
	"github.com/uap-campus/campus-fixer/internal/service"
	"github.com/uap-campus/campus-fixer/internal/sms"
	"github.com/uap-campus/campus-fixer/internal/worker"
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
	issueRepo := repository.NewIssueRepository(pool)
	updateRepo := repository.NewIssueUpdateRepository(pool)
	feedbackRepo := repository.NewFeedbackRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:          userRepo,
		PasswordResetRepo: resetRepo,
	})
	issueService := service.NewIssueService(service.IssueDependencies{
		IssueRepo:    issueRepo,
		UpdateRepo:   updateRepo,
		FeedbackRepo: feedbackRepo,
		UserRepo:     userRepo,
		Dispatcher:   dispatcher,
	})
	statsService := service.NewStatsService(issueRepo, redis.ClientHandle(), logger)

	gateway := sms.NewClient(cfg.SMS)
	notifier := worker.NewNotificationWorker(gateway, logger, metrics, cfg.SMS)
	notifier.Start(dispatcher)
	defer notifier.Close()

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Issues:         handlers.NewIssuesHandler(issueService),
		Admin:          handlers.NewAdminHandler(issueService, statsService),
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
