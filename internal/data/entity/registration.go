package entity

import (
	"time"

	"github.com/google/uuid"
)

type AttendanceState string

const (
	StateRegistered AttendanceState = "registered"
	StateCheckedIn  AttendanceState = "checked_in"
	StateCheckedOut AttendanceState = "checked_out"
)

type Registration struct {
	BaseSimple
	EventID      uuid.UUID  `db:"event_id"`
	Name         string     `db:"name"`
	Email        string     `db:"email"`
	CollegeID    string     `db:"college_id"`
	CheckedIn    bool       `db:"checked_in"`
	CheckedOut   bool       `db:"checked_out"`
	CheckInTime  *time.Time `db:"check_in_time"`
	CheckOutTime *time.Time `db:"check_out_time"`
}

// State derives the attendance state from the two flags.
// CheckedOut without CheckedIn never occurs; it would still report checked_out.
func (r *Registration) State() AttendanceState {
	switch {
	case r.CheckedOut:
		return StateCheckedOut
	case r.CheckedIn:
		return StateCheckedIn
	default:
		return StateRegistered
	}
}
