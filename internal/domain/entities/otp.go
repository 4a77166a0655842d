package entities

import (
	"time"

	"github.com/google/uuid"
)

// OTP is a one-time passcode bound to an email address. The email is not a
// foreign key: codes are issued during signup, before the address is proven.
type OTP struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Code      string    `json:"-"`
	Attempts  int       `json:"attempts"`
	IsUsed    bool      `json:"isUsed"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// IsExpired reports whether the code's validity window has passed.
func (o *OTP) IsExpired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// IsValid reports whether the code could still be accepted: unused, under
// the attempt cap, and inside its time window.
func (o *OTP) IsValid(now time.Time, maxAttempts int) bool {
	return !o.IsUsed && o.Attempts < maxAttempts && !o.IsExpired(now)
}
