package worker

import (
	"context"
	"fmt"
	"time"

	"event-checkin/pkg/mailer"
	"event-checkin/pkg/queue"

	"go.uber.org/zap"
)

type jobQueue interface {
	Dequeue(ctx context.Context) (*queue.Job, error)
	Retry(ctx context.Context, job *queue.Job) error
}

type sender interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// EmailProcessor drains OTP email jobs and sends them over SMTP.
type EmailProcessor struct {
	queue   jobQueue
	mailer  sender
	backoff time.Duration
	logger  *zap.Logger
}

func NewEmailProcessor(q jobQueue, m sender, logger *zap.Logger) *EmailProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailProcessor{
		queue:   q,
		mailer:  m,
		backoff: queue.RetryBackoff,
		logger:  logger.With(zap.String("worker", "email")),
	}
}

// Process sends the email for one job.
func (p *EmailProcessor) Process(ctx context.Context, job *queue.Job) error {
	payload, err := queue.DecodeOTPEmail(job)
	if err != nil {
		return err
	}

	msg := mailer.OTPMessage(payload.RecipientEmail, payload.RecipientName, payload.EventTitle, payload.OTPCode, payload.ExpiresAt)
	if err := p.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send otp email: %w", err)
	}

	p.logger.Info("otp email delivered",
		zap.String("job_id", job.ID),
		zap.String("registration_id", payload.RegistrationID.String()),
	)
	return nil
}

// Run loops until ctx is cancelled: dequeue, process, retry on error.
func (p *EmailProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("email worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			p.sleep(ctx)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			p.sleep(ctx)
		}
	}
}

func (p *EmailProcessor) sleep(ctx context.Context) {
	t := time.NewTimer(p.backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
