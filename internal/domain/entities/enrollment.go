package entities

import (
	"time"

	"github.com/google/uuid"
)

// EnrollmentStatus represents the enrollment state machine. There are
// exactly two states; cancellation is a transition, not a deletion.
type EnrollmentStatus string

const (
	EnrollmentStatusEnrolled EnrollmentStatus = "enrolled"
	EnrollmentStatusCanceled EnrollmentStatus = "canceled"
)

// Enrollment binds a seeker to an event. At most one row ever exists per
// (event, seeker) pair; re-enrolling flips a canceled row back to enrolled.
type Enrollment struct {
	ID             uuid.UUID        `json:"id"`
	EventID        uuid.UUID        `json:"eventId"`
	SeekerID       uuid.UUID        `json:"seekerId"`
	SeekerEmail    string           `json:"seekerEmail,omitempty"`
	Status         EnrollmentStatus `json:"status"`
	ReminderSentAt *time.Time       `json:"-"`
	FollowupSentAt *time.Time       `json:"-"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`

	Event *Event `json:"event,omitempty"`
}

// EnrollInput represents input for enrolling into an event
type EnrollInput struct {
	EventID uuid.UUID `json:"eventId" binding:"required"`
}

// EnrollmentListType filters a seeker's enrollment listing.
type EnrollmentListType string

const (
	EnrollmentListAll      EnrollmentListType = "all"
	EnrollmentListUpcoming EnrollmentListType = "upcoming"
	EnrollmentListPast     EnrollmentListType = "past"
)
