package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/student-support/internal/aggregator"
	"github.com/spec-kit/student-support/internal/analytics"
	httptransport "github.com/spec-kit/student-support/internal/api/http"
	"github.com/spec-kit/student-support/internal/api/http/handlers"
	"github.com/spec-kit/student-support/internal/auth"
	"github.com/spec-kit/student-support/internal/config"
	"github.com/spec-kit/student-support/internal/escalation"
	"github.com/spec-kit/student-support/internal/events"
	"github.com/spec-kit/student-support/internal/intent"
	"github.com/spec-kit/student-support/internal/knowledge"
	"github.com/spec-kit/student-support/internal/observability"
	"github.com/spec-kit/student-support/internal/persistence"
	"github.com/spec-kit/student-support/internal/provider"
	"github.com/spec-kit/student-support/internal/repository"
	"github.com/spec-kit/student-support/internal/service"
	"github.com/spec-kit/student-support/internal/synth"
	"github.com/spec-kit/student-support/internal/worker"
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

	if pg.Configured() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	base := knowledge.Default()
	if cfg.Knowledge.Path != "" {
		base, err = knowledge.LoadFile(cfg.Knowledge.Path)
		if err != nil {
			logger.Fatal("failed to load knowledge base", zap.Error(err))
		}
		logger.Info("loaded knowledge base", zap.String("path", cfg.Knowledge.Path))
	}

	ticketRepo, accountRepo := buildRepositories(pg, logger)
	identity, secondaries := buildProviders(pg, redis, logger)

	agg := aggregator.New(identity, secondaries, aggregator.Config{
		ProviderTimeout: cfg.Aggregator.ProviderTimeout(),
		OverallTimeout:  cfg.Aggregator.OverallTimeout(),
	}, logger)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	recorder := analytics.NewRecorder(redis.Client, cfg.Analytics.Key, cfg.Analytics.MaxEntries, logger)

	escalationService := escalation.NewService(ticketRepo, base, dispatcher, logger)
	supportService := service.NewSupportService(
		agg,
		intent.NewClassifier(base),
		synth.NewSynthesizer(base, nil),
		escalationService,
		recorder,
		metrics,
		logger,
	)
	authService := service.NewAuthService(*cfg, accountRepo)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), accountRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Chat:           handlers.NewChatHandler(supportService),
		Profile:        handlers.NewProfileHandler(supportService),
		Tickets:        handlers.NewTicketsHandler(escalationService),
		StaffTickets:   handlers.NewStaffTicketsHandler(escalationService),
		Analytics:      handlers.NewAnalyticsHandler(recorder, base),
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

// buildRepositories selects Postgres-backed stores when a pool exists and
// falls back to the in-memory stores seeded with the demo directory.
func buildRepositories(pg *persistence.Postgres, logger *zap.Logger) (repository.TicketRepository, repository.AccountRepository) {
	if pg.Configured() {
		pool := pg.PoolHandle()
		return repository.NewPostgresTickets(pool), repository.NewPostgresAccounts(pool)
	}

	accounts, err := repository.DemoAccounts()
	if err != nil {
		logger.Fatal("failed to seed demo accounts", zap.Error(err))
	}
	logger.Info("using in-memory stores", zap.Int("demo_accounts", len(accounts)))
	return repository.NewMemoryTickets(), repository.NewMemoryAccounts(accounts)
}

// buildProviders wires the record systems behind the aggregator. Identity
// prefers Postgres; each secondary prefers Redis. Anything unconfigured
// falls back to the bundled static campus records.
func buildProviders(pg *persistence.Postgres, redis *persistence.Redis, logger *zap.Logger) (provider.RecordProvider, []provider.RecordProvider) {
	var identity provider.RecordProvider
	if pg.Configured() {
		identity = provider.NewPostgresIdentity(pg.PoolHandle())
		logger.Info("identity provider: postgres")
	} else {
		identity = provider.NewStaticAdmissions()
		logger.Info("identity provider: static demo records")
	}

	statics := []provider.RecordProvider{
		provider.NewStaticAcademic(),
		provider.NewStaticFinancial(),
		provider.NewStaticHousing(),
		provider.NewStaticLibrary(),
	}

	if !redis.Configured() {
		return identity, statics
	}

	secondaries := make([]provider.RecordProvider, 0, len(statics))
	for _, fallback := range statics {
		p, err := provider.NewRedis(redis.Client, fallback.ID(), "")
		if err != nil {
			logger.Warn("redis provider unavailable, using static records",
				zap.String("provider", string(fallback.ID())), zap.Error(err))
			secondaries = append(secondaries, fallback)
			continue
		}
		secondaries = append(secondaries, p)
	}
	logger.Info("secondary providers: redis-backed", zap.Int("count", len(secondaries)))
	return identity, secondaries
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
