package usecase

import (
	"context"
	"fmt"
	"time"

	"event-checkin/internal/clock"
	"event-checkin/internal/data/entity"
	"event-checkin/internal/data/repository"
	"event-checkin/internal/dto/response"
	"event-checkin/internal/notify"
	"event-checkin/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OTPService interface {
	GenerateForEvent(ctx context.Context, eventID string) (*response.OTPBatchResponse, error)
}

type otpService struct {
	repo     *repository.Repository
	notifier notify.Notifier
	clock    clock.Clock
	ttl      time.Duration
	log      *zap.Logger
}

func NewOTPService(repo *repository.Repository, notifier notify.Notifier, clk clock.Clock, ttl time.Duration, log *zap.Logger) OTPService {
	return &otpService{
		repo:     repo,
		notifier: notifier,
		clock:    clk,
		ttl:      ttl,
		log:      log.With(zap.String("service", "otp")),
	}
}

// GenerateForEvent issues one fresh code per current registration. Older
// unused codes remain valid until their own expiry.
func (s *otpService) GenerateForEvent(ctx context.Context, eventID string) (*response.OTPBatchResponse, error) {
	event, err := findEvent(ctx, s.repo, eventID)
	if err != nil {
		return nil, err
	}

	regs, err := s.repo.Registration.FindByEvent(ctx, event.ID)
	if err != nil {
		s.log.Error("Failed to load registrations for OTP batch", zap.Error(err), zap.String("event_id", eventID))
		return nil, fmt.Errorf("load registrations for %s: %w", eventID, err)
	}

	now := s.clock.Now()
	expiresAt := now.Add(s.ttl)

	otps := make([]*entity.OTP, 0, len(regs))
	for _, reg := range regs {
		code, err := utils.GenerateOTP()
		if err != nil {
			return nil, err
		}
		otps = append(otps, &entity.OTP{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: now,
			},
			EventID:   event.ID,
			Email:     reg.Email,
			OTPCode:   code,
			ExpiresAt: expiresAt,
		})
	}

	if len(otps) > 0 {
		if err := s.repo.OTP.CreateBatch(ctx, otps); err != nil {
			s.log.Error("Failed to store OTP batch", zap.Error(err), zap.String("event_id", eventID))
			return nil, fmt.Errorf("store otp batch for %s: %w", eventID, err)
		}
	}

	for i, otp := range otps {
		notice := notify.OTPNotice{
			EventID:        event.ID,
			EventTitle:     event.Title,
			RegistrationID: regs[i].ID,
			Name:           regs[i].Name,
			Email:          otp.Email,
			Code:           otp.OTPCode,
			ExpiresAt:      otp.ExpiresAt,
		}
		if err := s.notifier.NotifyOTP(ctx, notice); err != nil {
			s.log.Warn("Failed to dispatch OTP",
				zap.Error(err),
				zap.String("event_id", eventID),
				zap.String("registration_id", regs[i].ID.String()),
			)
		}
	}

	s.log.Info("OTP batch generated", zap.String("event_id", eventID), zap.Int("count", len(otps)))

	return &response.OTPBatchResponse{Count: len(otps), ExpiresAt: expiresAt}, nil
}
