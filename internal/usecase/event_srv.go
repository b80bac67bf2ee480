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

type EventService interface {
	ListEvents(ctx context.Context) ([]response.EventResponse, error)
	GetEvent(ctx context.Context, eventID string) (*response.EventResponse, error)
	CreateEvent(ctx context.Context, req *request.EventRequest) (*response.EventResponse, error)
	UpdateEvent(ctx context.Context, eventID string, req *request.EventUpdateRequest) (*response.EventResponse, error)
}

type eventService struct {
	repo         *repository.Repository
	clock        clock.Clock
	lenientReads bool
	log          *zap.Logger
}

func NewEventService(repo *repository.Repository, clk clock.Clock, lenientReads bool, log *zap.Logger) EventService {
	return &eventService{
		repo:         repo,
		clock:        clk,
		lenientReads: lenientReads,
		log:          log.With(zap.String("service", "event")),
	}
}

// ListEvents returns every event in creation order with its registrations.
// With lenient reads a store failure yields an empty list.
func (s *eventService) ListEvents(ctx context.Context) ([]response.EventResponse, error) {
	events, byEvent, err := s.loadAll(ctx)
	if err != nil {
		if s.lenientReads {
			s.log.Warn("Event store unavailable, returning empty list", zap.Error(err))
			return []response.EventResponse{}, nil
		}
		s.log.Error("Failed to list events", zap.Error(err))
		return nil, err
	}

	result := make([]response.EventResponse, 0, len(events))
	for _, event := range events {
		result = append(result, response.EventToResponse(event, byEvent[event.ID]))
	}

	s.log.Debug("Events retrieved", zap.Int("count", len(result)))
	return result, nil
}

func (s *eventService) loadAll(ctx context.Context) ([]*entity.Event, map[uuid.UUID][]*entity.Registration, error) {
	events, err := s.repo.Event.FindAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list events: %w", err)
	}

	regs, err := s.repo.Registration.FindAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list registrations: %w", err)
	}

	byEvent := make(map[uuid.UUID][]*entity.Registration, len(events))
	for _, reg := range regs {
		byEvent[reg.EventID] = append(byEvent[reg.EventID], reg)
	}
	return events, byEvent, nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*response.EventResponse, error) {
	event, err := findEvent(ctx, s.repo, eventID)
	if err != nil {
		return nil, err
	}

	regs, err := s.repo.Registration.FindByEvent(ctx, event.ID)
	if err != nil {
		s.log.Error("Failed to get registrations for event", zap.Error(err), zap.String("event_id", eventID))
		return nil, fmt.Errorf("get registrations for event %s: %w", eventID, err)
	}

	resp := response.EventToResponse(event, regs)
	return &resp, nil
}

func (s *eventService) CreateEvent(ctx context.Context, req *request.EventRequest) (*response.EventResponse, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Venue = strings.TrimSpace(req.Venue)

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create event validation failed", zap.Any("errors", errs))
		return nil, newValidationError(errs)
	}

	now := s.clock.Now()
	event := &entity.Event{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:           req.Title,
		Description:     strings.TrimSpace(req.Description),
		Venue:           req.Venue,
		ScheduledAt:     req.DateTime.UTC(),
		MaxParticipants: req.MaxParticipants,
	}

	if err := s.repo.Event.Create(ctx, event); err != nil {
		s.log.Error("Failed to create event", zap.Error(err), zap.String("title", event.Title))
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.log.Info("Event created", zap.String("event_id", event.ID.String()), zap.String("title", event.Title))

	resp := response.EventToResponse(event, nil)
	return &resp, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID string, req *request.EventUpdateRequest) (*response.EventResponse, error) {
	trimField(req.Title)
	trimField(req.Description)
	trimField(req.Venue)

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update event validation failed", zap.Any("errors", errs))
		return nil, newValidationError(errs)
	}

	var event *entity.Event
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		id, err := uuid.Parse(eventID)
		if err != nil {
			return ErrEventNotFound
		}

		event, err = s.repo.Event.FindByIDForUpdate(txCtx, id)
		if err != nil {
			return fmt.Errorf("get event %s: %w", eventID, err)
		}
		if event == nil {
			return ErrEventNotFound
		}

		applyEventUpdate(event, req)
		event.UpdatedAt = s.clock.Now()

		if err := s.repo.Event.Update(txCtx, event); err != nil {
			return fmt.Errorf("update event %s: %w", eventID, err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrEventNotFound) {
			s.log.Error("Failed to update event", zap.Error(err), zap.String("event_id", eventID))
		}
		return nil, err
	}

	regs, err := s.repo.Registration.FindByEvent(ctx, event.ID)
	if err != nil {
		s.log.Warn("Failed to load registrations after update", zap.Error(err), zap.String("event_id", eventID))
		regs = nil
	}

	s.log.Info("Event updated", zap.String("event_id", eventID))

	resp := response.EventToResponse(event, regs)
	return &resp, nil
}

// applyEventUpdate never touches the id.
func applyEventUpdate(event *entity.Event, req *request.EventUpdateRequest) {
	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Venue != nil {
		event.Venue = *req.Venue
	}
	if req.DateTime != nil {
		event.ScheduledAt = req.DateTime.UTC()
	}
	if req.MaxParticipants != nil {
		limit := *req.MaxParticipants
		event.MaxParticipants = &limit
	}
}

func trimField(v *string) {
	if v != nil {
		*v = strings.TrimSpace(*v)
	}
}

// findEvent maps a malformed id and a missing row to ErrEventNotFound.
func findEvent(ctx context.Context, repo *repository.Repository, eventID string) (*entity.Event, error) {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return nil, ErrEventNotFound
	}

	event, err := repo.Event.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event %s: %w", eventID, err)
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	return event, nil
}
