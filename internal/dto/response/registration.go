package response

import (
	"time"

	"event-checkin/internal/data/entity"
)

type RegistrationResponse struct {
	ID           string                 `json:"id"`
	EventID      string                 `json:"eventId"`
	Name         string                 `json:"name"`
	Email        string                 `json:"email"`
	CollegeID    string                 `json:"collegeId"`
	CheckedIn    bool                   `json:"checkedIn"`
	CheckedOut   bool                   `json:"checkedOut"`
	CheckInTime  *time.Time             `json:"checkInTime"`
	CheckOutTime *time.Time             `json:"checkOutTime"`
	Status       entity.AttendanceState `json:"status"`
	CreatedAt    time.Time              `json:"createdAt"`
}

func RegistrationToResponse(reg *entity.Registration) RegistrationResponse {
	return RegistrationResponse{
		ID:           reg.ID.String(),
		EventID:      reg.EventID.String(),
		Name:         reg.Name,
		Email:        reg.Email,
		CollegeID:    reg.CollegeID,
		CheckedIn:    reg.CheckedIn,
		CheckedOut:   reg.CheckedOut,
		CheckInTime:  reg.CheckInTime,
		CheckOutTime: reg.CheckOutTime,
		Status:       reg.State(),
		CreatedAt:    reg.CreatedAt,
	}
}
