package request

type RegistrationRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	Email     string `json:"email" validate:"required,email"`
	CollegeID string `json:"collegeId" validate:"required,max=100"`
}

// AttendanceRequest identifies the attendee by email or registration id.
// A check-out may carry the code alone.
type AttendanceRequest struct {
	Email          string `json:"email,omitempty" validate:"omitempty,email"`
	RegistrationID string `json:"registrationId,omitempty"`
	OTP            string `json:"otp" validate:"required"`
}
