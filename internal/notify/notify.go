// Package notify hands freshly issued OTPs to a delivery channel.
package notify

import (
	"context"
	"time"

	"event-checkin/pkg/queue"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OTPNotice is one code addressed to one registration.
type OTPNotice struct {
	EventID        uuid.UUID
	EventTitle     string
	RegistrationID uuid.UUID
	Name           string
	Email          string
	Code           string
	ExpiresAt      time.Time
}

type Notifier interface {
	NotifyOTP(ctx context.Context, notice OTPNotice) error
}

// LogNotifier writes codes to the log. Development only.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log.With(zap.String("notifier", "log"))}
}

func (n *LogNotifier) NotifyOTP(_ context.Context, notice OTPNotice) error {
	n.log.Info("OTP issued",
		zap.String("event_id", notice.EventID.String()),
		zap.String("registration_id", notice.RegistrationID.String()),
		zap.String("email", notice.Email),
		zap.String("otp", notice.Code),
		zap.Time("expires_at", notice.ExpiresAt),
	)
	return nil
}

type otpEnqueuer interface {
	EnqueueOTPEmail(ctx context.Context, payload queue.OTPEmailPayload) error
}

// QueueNotifier enqueues an email job per code for the worker.
type QueueNotifier struct {
	queue otpEnqueuer
}

func NewQueueNotifier(q otpEnqueuer) *QueueNotifier {
	return &QueueNotifier{queue: q}
}

func (n *QueueNotifier) NotifyOTP(ctx context.Context, notice OTPNotice) error {
	return n.queue.EnqueueOTPEmail(ctx, queue.OTPEmailPayload{
		EventID:        notice.EventID,
		EventTitle:     notice.EventTitle,
		RegistrationID: notice.RegistrationID,
		RecipientName:  notice.Name,
		RecipientEmail: notice.Email,
		OTPCode:        notice.Code,
		ExpiresAt:      notice.ExpiresAt,
	})
}
