package models

import (
	"time"

	"github.com/google/uuid"
)

// Enrollment has no soft delete: cancellation is a status flip, and the
// unique (event_id, seeker_id) index must keep holding across re-enrolls.
type Enrollment struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	EventID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollments_event_seeker"`
	SeekerID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollments_event_seeker"`
	Status         string    `gorm:"type:varchar(20);not null;index"`
	ReminderSentAt *time.Time
	FollowupSentAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Associations
	Event  Event `gorm:"foreignKey:EventID"`
	Seeker User  `gorm:"foreignKey:SeekerID"`
}
