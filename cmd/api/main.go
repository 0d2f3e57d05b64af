package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/spec-kit/support-ticket-service/internal/ai"
	apihttp "github.com/spec-kit/support-ticket-service/internal/api/http"
	"github.com/spec-kit/support-ticket-service/internal/api/http/handlers"
	"github.com/spec-kit/support-ticket-service/internal/auth"
	"github.com/spec-kit/support-ticket-service/internal/config"
	"github.com/spec-kit/support-ticket-service/internal/events"
	"github.com/spec-kit/support-ticket-service/internal/observability"
	"github.com/spec-kit/support-ticket-service/internal/persistence"
	"github.com/spec-kit/support-ticket-service/internal/repository"
	"github.com/spec-kit/support-ticket-service/internal/service"
	"github.com/spec-kit/support-ticket-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	postgres, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("postgres connection failed", zap.Error(err))
	}
	defer postgres.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, postgres.PoolHandle(), logger); err != nil {
			logger.Fatal("migrations failed", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := postgres.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	historyRepo := repository.NewTicketHistoryRepository(pool)
	insightRepo := repository.NewAIInsightRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewDispatcher(logger)
	aiClient := ai.NewClient(cfg.OpenAI, logger)
	numbers := persistence.NewTicketNumberGenerator(redis, ticketRepo, logger)

	systemActor, err := service.EnsureSystemActor(ctx, userRepo, cfg.Pipeline.SystemActorEmail, logger)
	if err != nil {
		logger.Fatal("could not resolve system actor", zap.Error(err))
	}

	analysis := service.NewAnalysisService(service.AnalysisServiceDeps{
		Client:            aiClient,
		Categories:        categoryRepo,
		Insights:          insightRepo,
		Metrics:           metrics,
		Logger:            logger,
		CategoryThreshold: cfg.Pipeline.CategoryConfidenceThreshold,
	})
	assignment := service.NewAssignmentService(aiClient, userRepo, categoryRepo, logger)
	escalation := service.NewEscalationService(userRepo, logger)

	ticketService := service.NewTicketService(service.TicketServiceDeps{
		Tickets:     ticketRepo,
		Users:       userRepo,
		History:     historyRepo,
		Numbers:     numbers,
		Analysis:    analysis,
		Assignment:  assignment,
		Escalation:  escalation,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Logger:      logger,
		SystemActor: systemActor,
	})

	tokens := auth.NewTokenIssuer(cfg.Auth)
	hasher := auth.NewPasswordHasher(cfg.Auth)
	userService := service.NewUserService(userRepo, tokens, hasher, logger)

	queue := make(chan service.Notification, 256)
	notifications := service.NewNotificationService(queue, logger)
	notifications.RegisterHandlers(dispatcher)
	go worker.NewNotificationWorker(queue, logger).Run(ctx)

	app := apihttp.NewApp(apihttp.RouterDeps{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics,
		Tokens:  tokens,
		Auth:    handlers.NewAuthHandler(userService),
		Tickets: handlers.NewTicketsHandler(ticketService),
		AI:      handlers.NewAIHandler(analysis),
		Health:  handlers.NewHealthHandler(postgres, redis, metrics, cfg.App.Version),
	})

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		_ = app.Shutdown()
	}()

	logger.Info("starting server", zap.String("addr", cfg.App.Addr()))
	if err := app.Listen(cfg.App.Addr()); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
