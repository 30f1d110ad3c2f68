package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Freeeeeet/consult_scheduler/internal/app"
	"github.com/Freeeeeet/consult_scheduler/internal/auth"
	"github.com/Freeeeeet/consult_scheduler/internal/config"
	"github.com/Freeeeeet/consult_scheduler/internal/controller/api"
	botctl "github.com/Freeeeeet/consult_scheduler/internal/controller/bot"
	"github.com/Freeeeeet/consult_scheduler/internal/controller/state"
	"github.com/Freeeeeet/consult_scheduler/internal/events"
	"github.com/Freeeeeet/consult_scheduler/internal/repository"
	"github.com/Freeeeeet/consult_scheduler/internal/service"
	"github.com/Freeeeeet/consult_scheduler/migrations"
)

const tokenTTL = 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting consult scheduler",
		zap.String("environment", cfg.Environment),
		zap.Bool("env_file_loaded", cfg.EnvFileLoaded),
		zap.Bool("telegram_enabled", cfg.TelegramToken != ""),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Scheduler stopped with error", zap.Error(err))
	}
	logger.Info("Scheduler stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	shutdownTracing, err := app.SetupTracing(ctx, app.TracingConfig{
		Enabled:  cfg.OTelEnabled,
		Endpoint: cfg.OTelEndpoint,
	}, logger)
	if err != nil {
		logger.Error("Tracing setup failed", zap.Error(err))
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownTracing(shutdownCtx)
		}()
	}

	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}
	logger.Info("Connected to database")

	if cfg.MigrationsEnabled {
		migrator, err := app.NewMigrator(pool, migrations.FS, logger)
		if err != nil {
			return err
		}
		runErr := migrator.Run(ctx)
		_ = migrator.Close()
		if runErr != nil {
			return runErr
		}
	}

	userRepo := repository.NewUserRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	availabilityRepo := repository.NewAvailabilityRepository(pool)

	userService := service.NewUserService(userRepo, logger)
	availabilityService := service.NewAvailabilityService(availabilityRepo, logger)
	tokens := auth.NewTokenManager(cfg.JWTSecret, tokenTTL)

	var publishers events.Multi
	if brokers := events.SplitBrokers(cfg.KafkaBrokers); len(brokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(brokers, cfg.KafkaTopic, logger)
		defer kafkaPublisher.Close()
		publishers = append(publishers, kafkaPublisher)
		logger.Info("Booking events go to kafka",
			zap.Strings("brokers", brokers),
			zap.String("topic", cfg.KafkaTopic),
		)
	}

	var telegram *bot.Bot
	if cfg.TelegramToken != "" {
		telegram, err = bot.New(cfg.TelegramToken)
		if err != nil {
			return err
		}
		publishers = append(publishers, botctl.NewNotifier(telegram, userService, logger))
	}

	bookingService := service.NewBookingService(bookingRepo, availabilityRepo, userRepo, publishers, logger)

	sessions := state.NewManager(api.SessionLoader(availabilityService), cfg.PixelsPerHour, cfg.EditorSessionTTL, logger)
	sweeper := app.NewScheduler(sessions, time.Minute, logger)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	var rateLimiter *api.RateLimiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		rateLimiter = api.NewRedisRateLimiter(rdb, cfg.RateLimitPerMinute, logger)
		logger.Info("Rate limiting enabled",
			zap.String("redis_addr", cfg.RedisAddr),
			zap.Int("per_minute", cfg.RateLimitPerMinute),
		)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: api.NewHTTPHandler(api.Deps{
			Availability: availabilityService,
			Bookings:     bookingService,
			Users:        userService,
			Sessions:     sessions,
			Tokens:       tokens,
			RateLimiter:  rateLimiter,
			Logger:       logger,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	if telegram != nil {
		controller := botctl.NewController(telegram, userService, bookingService, availabilityService, tokens, cfg.BookingWeeksAhead, logger)
		if err := controller.RegisterHandlers(ctx); err != nil {
			logger.Warn("Bot commands menu not set", zap.Error(err))
		}
		go controller.Start(ctx)
	}

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}
	logger.Info("HTTP server stopped")
	return nil
}
