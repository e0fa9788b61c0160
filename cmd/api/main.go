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

	httptransport "github.com/mento-services/marketplace-api/internal/api/http"
	"github.com/mento-services/marketplace-api/internal/api/http/handlers"
	"github.com/mento-services/marketplace-api/internal/auth"
	"github.com/mento-services/marketplace-api/internal/config"
	"github.com/mento-services/marketplace-api/internal/events"
	"github.com/mento-services/marketplace-api/internal/gateway"
	"github.com/mento-services/marketplace-api/internal/mailer"
	"github.com/mento-services/marketplace-api/internal/observability"
	"github.com/mento-services/marketplace-api/internal/persistence"
	"github.com/mento-services/marketplace-api/internal/ratelimit"
	"github.com/mento-services/marketplace-api/internal/repository"
	"github.com/mento-services/marketplace-api/internal/service"
	"github.com/mento-services/marketplace-api/internal/sms"
	"github.com/mento-services/marketplace-api/internal/worker"
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
	kycRepo := repository.NewKycRepository(pool)
	subscriptionRepo := repository.NewSubscriptionRepository(pool)
	workerRepo := repository.NewWorkerRepository(pool)
	jobSeekerRepo := repository.NewJobSeekerRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)
	jobRepo := repository.NewJobRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	counterStore := ratelimit.NewRedisCounterStore(redis.Client, "ratelimit")
	otpLimiter := ratelimit.NewFixedWindowLimiter(counterStore, cfg.RateLimit.OtpLimit, cfg.RateLimit.OtpWindow())
	refreshLimiter := ratelimit.NewFixedWindowLimiter(counterStore, cfg.RateLimit.RefreshLimit, cfg.RateLimit.RefreshWindow())

	otpProvider := buildOtpProvider(*cfg, redis, dispatcher, logger)
	mail := mailer.New(cfg.Mail)
	payments := gateway.NewClient(cfg.Payment)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:       userRepo,
		OtpProvider:    otpProvider,
		OtpLimiter:     otpLimiter,
		RefreshLimiter: refreshLimiter,
		Dispatcher:     dispatcher,
		Metrics:        metrics,
	})
	userService := service.NewUserService(userRepo)
	kycService := service.NewKycService(service.KycDependencies{
		KycRepo:    kycRepo,
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
	})
	subscriptionService := service.NewSubscriptionService(service.SubscriptionDependencies{
		SubscriptionRepo: subscriptionRepo,
		Orders:           payments,
		SigningSecret:    cfg.Payment.KeySecret,
		Currency:         cfg.Payment.Currency,
		Dispatcher:       dispatcher,
		Metrics:          metrics,
	})
	workerService := service.NewWorkerService(service.WorkerDependencies{
		WorkerRepo:    workerRepo,
		Subscriptions: subscriptionService,
		Dispatcher:    dispatcher,
	})
	jobSeekerService := service.NewJobSeekerService(service.JobSeekerDependencies{
		JobSeekerRepo: jobSeekerRepo,
		Subscriptions: subscriptionService,
	})
	reviewService := service.NewReviewService(service.ReviewDependencies{
		ReviewRepo: reviewRepo,
		WorkerRepo: workerRepo,
		Dispatcher: dispatcher,
	})
	jobService := service.NewJobService(jobRepo)
	categoryService := service.NewCategoryService(categoryRepo)

	notificationService := service.NewNotificationService(dispatcher, userRepo, mail, logger)
	worker.StartNotificationWorker(notificationService)

	sweeper := worker.NewSubscriptionSweeper(subscriptionRepo, logger, metrics, time.Hour)
	go sweeper.Run(ctx)

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		Kyc:            handlers.NewKycHandler(kycService),
		Subscriptions:  handlers.NewSubscriptionsHandler(subscriptionService),
		Workers:        handlers.NewWorkersHandler(workerService),
		JobSeekers:     handlers.NewJobSeekersHandler(jobSeekerService),
		Reviews:        handlers.NewReviewsHandler(reviewService),
		Jobs:           handlers.NewJobsHandler(jobService),
		Categories:     handlers.NewCategoriesHandler(categoryService),
		Admin:          handlers.NewAdminHandler(kycService, workerService, jobSeekerService, categoryService, jobService),
		AuthMiddleware: authMiddleware,
		UserRepo:       userRepo,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func buildOtpProvider(cfg config.Config, redis *persistence.Redis, dispatcher events.Dispatcher, logger *zap.Logger) sms.OtpProvider {
	if cfg.SMS.Provider == "msg91" {
		return sms.NewMSG91Provider(cfg.SMS)
	}
	store := sms.NewOtpStore(redis.Client, cfg.SMS.OtpTTL(), cfg.SMS.MaxAttempts)
	return sms.NewDevProvider(store, dispatcher, logger, cfg.SMS.OtpLength, cfg.SMS.BcryptCost)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
