package entity

import "time"

type Event struct {
	Base
	Title           string    `db:"title"`
	Description     string    `db:"description"`
	Venue           string    `db:"venue"`
	ScheduledAt     time.Time `db:"scheduled_at"`
	MaxParticipants *int      `db:"max_participants"`
}

// HasCapacityLimit reports whether registrations are capped for this event.
func (e *Event) HasCapacityLimit() bool {
	return e.MaxParticipants != nil && *e.MaxParticipants > 0
}
