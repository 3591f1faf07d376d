package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/service-requests/internal/api/http"
	"github.com/spec-kit/service-requests/internal/api/http/handlers"
	"github.com/spec-kit/service-requests/internal/auth"
	"github.com/spec-kit/service-requests/internal/config"
	"github.com/spec-kit/service-requests/internal/events"
	"github.com/spec-kit/service-requests/internal/intake"
	"github.com/spec-kit/service-requests/internal/observability"
	"github.com/spec-kit/service-requests/internal/persistence"
	"github.com/spec-kit/service-requests/internal/repository"
	"github.com/spec-kit/service-requests/internal/service"
	"github.com/spec-kit/service-requests/internal/worker"
	"github.com/spec-kit/service-requests/internal/workbook"
)

type repositories struct {
	requests repository.RequestRepository
	users    repository.UserRepository
	admins   repository.AdminRepository
}

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

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	repos := buildRepositories(pg)
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	validator := intake.NewValidator(cfg.Intake.ServiceTypes, cfg.Intake.RequireSubmissionDate)
	appender := workbook.NewAppender(cfg.Workbook.Path)

	worker.StartWorkbookSync(dispatcher, appender, logger)
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger))

	revoker := auth.NewMemoryRevoker()
	if redis.Enabled() {
		revoker = auth.NewRedisRevoker(redis.Client)
	}

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:  repos.users,
		AdminRepo: repos.admins,
		Revoker:   revoker,
	})
	if created, err := authService.SeedAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
		logger.Fatal("failed to seed admin", zap.Error(err))
	} else if created {
		logger.Info("seeded admin account", zap.String("username", cfg.Auth.AdminUsername))
	}

	submissionService := service.NewSubmissionService(service.SubmissionDependencies{
		RequestRepo: repos.requests,
		Validator:   validator,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Logger:      logger,
	})
	lifecycleService := service.NewLifecycleService(service.LifecycleDependencies{
		RequestRepo: repos.requests,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Logger:      logger,
	})
	queryService := service.NewQueryService(service.QueryDependencies{
		RequestRepo: repos.requests,
		Validator:   validator,
	})

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), authService.Revoker(), repos.users, repos.admins)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:       logger,
		Metrics:      metrics,
		Timeout:      cfg.App.RequestTimeout(),
		AllowOrigins: cfg.App.CORSAllowOrigins,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:    handlers.NewUsersHandler(authService),
		Admins:   handlers.NewAdminHandler(authService),
		Sessions: handlers.NewSessionHandler(authService),
		Requests: handlers.NewRequestsHandler(handlers.RequestsHandlerDeps{
			Submissions: submissionService,
			Lifecycle:   lifecycleService,
			Query:       queryService,
			Workbook:    appender,
		}),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
	})

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

// buildRepositories picks Postgres when a pool is open and process memory otherwise.
func buildRepositories(pg *persistence.Postgres) repositories {
	if pg.Enabled() {
		pool := pg.PoolHandle()
		return repositories{
			requests: repository.NewRequestRepository(pool),
			users:    repository.NewUserRepository(pool),
			admins:   repository.NewAdminRepository(pool),
		}
	}
	return repositories{
		requests: repository.NewMemoryRequestRepository(nil),
		users:    repository.NewMemoryUserRepository(),
		admins:   repository.NewMemoryAdminRepository(),
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
