package response

import (
	"time"

	"event-checkin/internal/data/entity"
)

type EventResponse struct {
	ID              string                 `json:"id"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	Venue           string                 `json:"venue"`
	DateTime        time.Time              `json:"datetime"`
	MaxParticipants *int                   `json:"maxParticipants,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
	Registrations   []RegistrationResponse `json:"registrations"`
}

type OTPBatchResponse struct {
	Count     int       `json:"count"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// EventToResponse attaches regs in the order given.
func EventToResponse(event *entity.Event, regs []*entity.Registration) EventResponse {
	resp := EventResponse{
		ID:              event.ID.String(),
		Title:           event.Title,
		Description:     event.Description,
		Venue:           event.Venue,
		DateTime:        event.ScheduledAt,
		MaxParticipants: event.MaxParticipants,
		CreatedAt:       event.CreatedAt,
		UpdatedAt:       event.UpdatedAt,
		Registrations:   make([]RegistrationResponse, 0, len(regs)),
	}
	for _, reg := range regs {
		resp.Registrations = append(resp.Registrations, RegistrationToResponse(reg))
	}
	return resp
}
