package request

import "time"

type EventRequest struct {
	Title           string    `json:"title" validate:"required,max=200"`
	Description     string    `json:"description" validate:"max=5000"`
	Venue           string    `json:"venue" validate:"required,max=200"`
	DateTime        time.Time `json:"datetime" validate:"required"`
	MaxParticipants *int      `json:"maxParticipants,omitempty" validate:"omitempty,gte=0"`
}

// EventUpdateRequest merges only the fields that are present.
type EventUpdateRequest struct {
	Title           *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description     *string    `json:"description,omitempty" validate:"omitempty,max=5000"`
	Venue           *string    `json:"venue,omitempty" validate:"omitempty,min=1,max=200"`
	DateTime        *time.Time `json:"datetime,omitempty"`
	MaxParticipants *int       `json:"maxParticipants,omitempty" validate:"omitempty,gte=0"`
}
