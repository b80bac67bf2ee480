package entity

import (
	"time"

	"github.com/google/uuid"
)

type OTP struct {
	BaseSimple
	EventID   uuid.UUID `db:"event_id"`
	Email     string    `db:"email"`
	OTPCode   string    `db:"otp_code"`
	ExpiresAt time.Time `db:"expires_at"`
	IsUsed    bool      `db:"is_used"`
}

// Consumable reports whether the code can still be redeemed at now.
func (o *OTP) Consumable(now time.Time) bool {
	return !o.IsUsed && now.Before(o.ExpiresAt)
}
