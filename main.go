// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"event-checkin/cmd"
	"event-checkin/internal/clock"
	"event-checkin/internal/data/repository"
	"event-checkin/internal/data/repository/sqlite"
	"event-checkin/internal/notify"
	"event-checkin/internal/usecase"
	"event-checkin/internal/wire"
	"event-checkin/migrations"
	"event-checkin/pkg/database"
	"event-checkin/pkg/queue"
	"event-checkin/pkg/redis"
	"event-checkin/pkg/utils"

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

	if len(os.Args) > 1 && os.Args[1] == "worker" {
		if err := cmd.EmailWorker(config, logger); err != nil {
			logger.Fatal("Email worker failed", zap.Error(err))
		}
		return
	}

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("db_driver", config.Database.Driver),
		zap.String("otp_notifier", config.OTP.Notifier),
		zap.Bool("debug", config.App.Debug),
	)

	ctx := context.Background()

	// Connect to database and apply migrations
	repos, closeDB, err := openRepository(ctx, config.Database, logger)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer closeDB()

	logger.Info("Database ready", zap.String("driver", config.Database.Driver))

	notifier, closeNotifier, err := openNotifier(ctx, config, logger)
	if err != nil {
		logger.Fatal("Failed to set up OTP notifier", zap.Error(err))
	}
	defer closeNotifier()

	service := usecase.NewService(repos, notifier, clock.NewSystem(), config, logger)
	if err := service.Auth.Bootstrap(ctx); err != nil {
		logger.Fatal("Failed to bootstrap admin", zap.Error(err))
	}

	// Wire all dependencies
	app := wire.Wiring(service, config, logger)

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}

func openRepository(ctx context.Context, config utils.DatabaseConfig, logger *zap.Logger) (*repository.Repository, func(), error) {
	switch config.Driver {
	case utils.DriverSQLite:
		db, err := database.OpenSQLite(config.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := migrations.ApplySQLite(ctx, db.DB()); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		return sqlite.NewRepository(db, logger), func() { _ = db.Close() }, nil

	default:
		db, err := database.InitDB(config)
		if err != nil {
			return nil, nil, err
		}
		if err := migrations.ApplyPostgres(ctx, db.Pool()); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate postgres: %w", err)
		}
		return repository.NewRepository(db, logger), db.Close, nil
	}
}

func openNotifier(ctx context.Context, config *utils.Config, logger *zap.Logger) (notify.Notifier, func(), error) {
	if config.OTP.Notifier != utils.NotifierQueue {
		return notify.NewLogNotifier(logger), func() {}, nil
	}

	rdb, err := redis.NewClient(ctx, config.Redis, logger)
	if err != nil {
		return nil, nil, err
	}
	return notify.NewQueueNotifier(queue.NewQueue(rdb.Client, logger)), func() { _ = rdb.Close() }, nil
}
