package usecase

import "errors"

var (
	ErrEventNotFound        = errors.New("event not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrValidation           = errors.New("validation failed")

	ErrInvalidOrExpiredOTP = errors.New("invalid or expired OTP")
	ErrAlreadyCheckedIn    = errors.New("already checked in")
	ErrAlreadyCheckedOut   = errors.New("already checked out")
	ErrCheckInRequired     = errors.New("please check in first before checking out")

	ErrEventFull             = errors.New("event has reached its participant limit")
	ErrDuplicateRegistration = errors.New("email already registered for this event")
	ErrEmailExists           = errors.New("email already registered")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrSignupDisabled     = errors.New("admin signup is disabled")
)

// ValidationError carries field messages and matches ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error()
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(fields map[string]string) error {
	return &ValidationError{Fields: fields}
}
