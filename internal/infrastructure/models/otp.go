package models

import (
	"time"

	"github.com/google/uuid"
)

// OTP rows are keyed by email, not user id: codes are issued while the
// address is still unproven. No soft delete; expired rows are purged.
type OTP struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Email     string    `gorm:"type:varchar(255);not null;index"`
	Code      string    `gorm:"type:varchar(6);not null"`
	Attempts  int       `gorm:"not null;default:0"`
	IsUsed    bool      `gorm:"not null;default:false"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}

func (OTP) TableName() string {
	return "otps"
}
