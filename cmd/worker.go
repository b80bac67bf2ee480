package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"event-checkin/internal/worker"
	"event-checkin/pkg/mailer"
	"event-checkin/pkg/queue"
	"event-checkin/pkg/redis"
	"event-checkin/pkg/utils"

	"go.uber.org/zap"
)

// EmailWorker drains the OTP email queue until SIGINT or SIGTERM.
func EmailWorker(config *utils.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb, err := redis.NewClient(ctx, config.Redis, logger)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer rdb.Close()

	smtp, err := mailer.NewSMTPMailer(config.Email, logger)
	if err != nil {
		return fmt.Errorf("mailer: %w", err)
	}

	processor := worker.NewEmailProcessor(queue.NewQueue(rdb.Client, logger), smtp, logger)

	logger.Info("Email worker started")
	processor.Run(ctx)
	logger.Info("Email worker stopped")
	return nil
}
