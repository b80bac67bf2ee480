package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"event-checkin/internal/clock"
	"event-checkin/internal/data/entity"
	"event-checkin/internal/data/repository"
	"event-checkin/internal/dto/request"
	"event-checkin/internal/dto/response"
	"event-checkin/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RegistrationService interface {
	Register(ctx context.Context, eventID string, req *request.RegistrationRequest) (*response.RegistrationResponse, error)
	ListRegistrations(ctx context.Context, eventID string) ([]response.RegistrationResponse, error)
}

type registrationService struct {
	repo        *repository.Repository
	clock       clock.Clock
	uniqueEmail bool
	log         *zap.Logger
}

func NewRegistrationService(repo *repository.Repository, clk clock.Clock, uniqueEmail bool, log *zap.Logger) RegistrationService {
	return &registrationService{
		repo:        repo,
		clock:       clk,
		uniqueEmail: uniqueEmail,
		log:         log.With(zap.String("service", "registration")),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register adds an attendee. The event row stays locked while the
// capacity and duplicate checks run, so concurrent registrations cannot
// overshoot maxParticipants.
func (s *registrationService) Register(ctx context.Context, eventID string, req *request.RegistrationRequest) (*response.RegistrationResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	req.CollegeID = strings.TrimSpace(req.CollegeID)

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Registration validation failed", zap.Any("errors", errs), zap.String("event_id", eventID))
		return nil, newValidationError(errs)
	}

	id, err := uuid.Parse(eventID)
	if err != nil {
		return nil, ErrEventNotFound
	}

	reg := &entity.Registration{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: s.clock.Now(),
		},
		EventID:   id,
		Name:      req.Name,
		Email:     req.Email,
		CollegeID: req.CollegeID,
	}

	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.repo.Event.FindByIDForUpdate(txCtx, id)
		if err != nil {
			return fmt.Errorf("lock event %s: %w", eventID, err)
		}
		if event == nil {
			return ErrEventNotFound
		}

		if event.HasCapacityLimit() {
			count, err := s.repo.Registration.CountByEvent(txCtx, id)
			if err != nil {
				return err
			}
			if count >= *event.MaxParticipants {
				return ErrEventFull
			}
		}

		if s.uniqueEmail {
			existing, err := s.repo.Registration.FindByEmail(txCtx, id, req.Email)
			if err != nil {
				return err
			}
			if existing != nil {
				return ErrDuplicateRegistration
			}
		}

		return s.repo.Registration.Create(txCtx, reg)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrEventNotFound), errors.Is(err, ErrEventFull), errors.Is(err, ErrDuplicateRegistration):
			s.log.Warn("Registration rejected", zap.Error(err), zap.String("event_id", eventID), zap.String("email", req.Email))
		default:
			s.log.Error("Failed to register attendee", zap.Error(err), zap.String("event_id", eventID))
		}
		return nil, err
	}

	s.log.Info("Attendee registered",
		zap.String("event_id", eventID),
		zap.String("registration_id", reg.ID.String()),
		zap.String("email", reg.Email),
	)

	resp := response.RegistrationToResponse(reg)
	return &resp, nil
}

func (s *registrationService) ListRegistrations(ctx context.Context, eventID string) ([]response.RegistrationResponse, error) {
	event, err := findEvent(ctx, s.repo, eventID)
	if err != nil {
		return nil, err
	}

	regs, err := s.repo.Registration.FindByEvent(ctx, event.ID)
	if err != nil {
		s.log.Error("Failed to list registrations", zap.Error(err), zap.String("event_id", eventID))
		return nil, fmt.Errorf("list registrations for %s: %w", eventID, err)
	}

	result := make([]response.RegistrationResponse, 0, len(regs))
	for _, reg := range regs {
		result = append(result, response.RegistrationToResponse(reg))
	}
	return result, nil
}
