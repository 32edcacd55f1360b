package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ticket-booking/cmd"
	"ticket-booking/internal/cache"
	"ticket-booking/internal/clock"
	"ticket-booking/internal/data/repository"
	"ticket-booking/internal/notify"
	"ticket-booking/internal/usecase"
	"ticket-booking/internal/wire"
	"ticket-booking/pkg/database"
	"ticket-booking/pkg/redis"
	"ticket-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("storage", config.App.StorageDriver),
		zap.String("notify", config.Notify.Driver),
		zap.Bool("cache", config.Cache.Enabled),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage
	var repos *repository.Repository
	switch config.App.StorageDriver {
	case utils.StoragePostgres:
		db, err := database.InitDB(config.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		applied, err := database.Migrate(ctx, db)
		if err != nil {
			logger.Fatal("Failed to apply migrations", zap.Error(err))
		}
		logger.Info("Database connected successfully", zap.Int("migrations_applied", applied))

		repos = repository.NewRepository(db, logger)
	default:
		repos = repository.NewMemoryRepository(logger)
	}

	ext := usecase.Extensions{Clock: clock.NewSystem()}

	// Ticket cache
	if config.Cache.Enabled {
		client, err := redis.NewClient(ctx, config.Cache)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer client.Close()

		ext.Cache = cache.NewRedisTicketCache(client, config.Cache.TTL)
		logger.Info("Ticket cache enabled", zap.String("addr", config.Cache.RedisAddr))
	}

	// Change notifications
	notifier, err := notify.New(config.Notify, logger)
	if err != nil {
		logger.Fatal("Failed to init notifier", zap.Error(err))
	}
	defer func() {
		if err := notifier.Close(); err != nil {
			logger.Warn("Failed to close notifier", zap.Error(err))
		}
	}()
	ext.Notifier = notifier

	// Wire all dependencies
	app := wire.Wiring(repos, ext, config, logger)

	if _, err := app.Service.Ticket.Seed(ctx); err != nil {
		logger.Fatal("Failed to seed tickets", zap.Error(err))
	}

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, config.App.ShutdownTimeout, logger, app.Sweeper.Start); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return
	}
	logger.Info("Server stopped")
}
