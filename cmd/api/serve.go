package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/band-site/internal/api/http"
	"github.com/spec-kit/band-site/internal/api/http/handlers"
	"github.com/spec-kit/band-site/internal/auth"
	"github.com/spec-kit/band-site/internal/config"
	"github.com/spec-kit/band-site/internal/events"
	"github.com/spec-kit/band-site/internal/observability"
	"github.com/spec-kit/band-site/internal/persistence"
	"github.com/spec-kit/band-site/internal/ratelimit"
	"github.com/spec-kit/band-site/internal/repository"
	"github.com/spec-kit/band-site/internal/service"
	"github.com/spec-kit/band-site/internal/storage"
	"github.com/spec-kit/band-site/internal/validation"
	"github.com/spec-kit/band-site/internal/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Error("failed to connect postgres", zap.Error(err))
		return err
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Error("failed to run migrations", zap.Error(err))
			return err
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	policy := auth.DefaultPolicy()
	validator := validation.New()

	blobs, err := storage.NewLocalStore(cfg.Storage.UploadDir, cfg.Storage.PublicBaseURL)
	if err != nil {
		logger.Error("failed to prepare upload directory", zap.Error(err))
		return err
	}

	var limiter ratelimit.Store
	switch cfg.RateLimit.Backend {
	case config.RateLimitBackendRedis:
		limiter = ratelimit.NewRedisStore(redis.Client, cfg.RateLimit.RedisPrefix)
	default:
		limiter = ratelimit.NewMemoryStore(ratelimit.WithCleanupEvery(cfg.RateLimit.CleanupEvery))
	}
	worker.StartRateLimitJanitor(ctx, limiter)
	logger.Info("rate limiter ready", zap.String("backend", cfg.RateLimit.Backend))

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	performanceRepo := repository.NewPerformanceRepository(pool)
	memberRepo := repository.NewMemberRepository(pool)
	mediaRepo := repository.NewMediaRepository(pool)
	settingRepo := repository.NewSettingRepository(pool)
	socialLinkRepo := repository.NewSocialLinkRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	likeRepo := repository.NewLikeRepository(pool)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
	})
	userService := service.NewUserService(userRepo, dispatcher)
	eventService := service.NewEventService(eventRepo, policy)
	performanceService := service.NewPerformanceService(performanceRepo)
	memberService := service.NewMemberService(memberRepo, policy)
	mediaService := service.NewMediaService(service.MediaDependencies{
		MediaRepo:      mediaRepo,
		Blobs:          blobs,
		Policy:         policy,
		Dispatcher:     dispatcher,
		Logger:         logger,
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
	})
	settingService := service.NewSettingService(settingRepo)
	socialLinkService := service.NewSocialLinkService(socialLinkRepo)
	interactionService := service.NewInteractionService(service.InteractionDependencies{
		CommentRepo:     commentRepo,
		LikeRepo:        likeRepo,
		EventRepo:       eventRepo,
		PerformanceRepo: performanceRepo,
		MediaRepo:       mediaRepo,
		Policy:          policy,
		Dispatcher:      dispatcher,
	})
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger))

	routes := httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version,
			handlers.Check{Name: "postgres", Pinger: pg},
			handlers.Check{Name: "redis", Pinger: redis},
		),
		Auth:         handlers.NewAuthHandler(authService, validator),
		Users:        handlers.NewUsersHandler(userService, validator),
		Events:       handlers.NewEventsHandler(eventService, validator),
		Performances: handlers.NewPerformancesHandler(performanceService, validator),
		Members:      handlers.NewMembersHandler(memberService, validator),
		Media:        handlers.NewMediaHandler(mediaService, validator),
		Site:         handlers.NewSiteHandler(settingService, socialLinkService, validator),
		Interactions: handlers.NewInteractionHandler(interactionService, validator),

		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
		Policy:         policy,
		Metrics:        metrics,

		APIGuard: httptransport.Guard(limiter, httptransport.GuardOptions{
			Name:   "api",
			Window: cfg.RateLimit.API.Window,
			Max:    cfg.RateLimit.API.Max,
		}, logger, metrics),
		AuthGuard: httptransport.Guard(limiter, httptransport.GuardOptions{
			Name:   "auth",
			Window: cfg.RateLimit.Auth.Window,
			Max:    cfg.RateLimit.Auth.Max,
		}, logger, metrics),

		UploadDir:     blobs.Root(),
		UploadsPrefix: cfg.Storage.PublicBaseURL,
	}

	app := httptransport.NewServer(httptransport.ServerOptions{
		Name:           cfg.App.Name,
		BodyLimit:      cfg.App.BodyLimitBytes,
		RequestTimeout: cfg.App.RequestTimeout(),
		Logger:         logger,
		Metrics:        metrics,
	}, routes)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		errCh <- app.Listen(cfg.App.Addr())
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("fiber listen", zap.Error(err))
			return err
		}
	case sig := <-shutdownSignal():
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	cancel()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	return nil
}

func shutdownSignal() <-chan os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	return sigCh
}
