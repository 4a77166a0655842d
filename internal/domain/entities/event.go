package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Event represents a published event. Capacity is null for unlimited events.
type Event struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Language         string     `json:"language"`
	Location         string     `json:"location"`
	StartsAt         time.Time  `json:"startsAt"`
	EndsAt           time.Time  `json:"endsAt"`
	Capacity         null.Int   `json:"capacity"`
	CreatedBy        uuid.UUID  `json:"createdBy"`
	CreatedByEmail   string     `json:"createdByEmail,omitempty"`
	TotalEnrollments int        `json:"totalEnrollments"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	DeletedAt        *time.Time `json:"-"`
}

// IsPast reports whether the event has ended.
func (e *Event) IsPast(now time.Time) bool {
	return now.After(e.EndsAt)
}

// IsUpcoming reports whether the event has not started yet.
func (e *Event) IsUpcoming(now time.Time) bool {
	return now.Before(e.StartsAt)
}

// AvailableSeats returns the remaining seats, floored at zero. Invalid when
// the event is uncapped.
func (e *Event) AvailableSeats() null.Int {
	if !e.Capacity.Valid {
		return null.Int{}
	}
	seats := e.Capacity.Int - e.TotalEnrollments
	if seats < 0 {
		seats = 0
	}
	return null.IntFrom(seats)
}

// IsFull reports whether active enrollments have reached capacity.
func (e *Event) IsFull() bool {
	if !e.Capacity.Valid {
		return false
	}
	return e.TotalEnrollments >= e.Capacity.Int
}

// CreateEventInput represents input for creating an event
type CreateEventInput struct {
	Title       string    `json:"title" binding:"required,max=255"`
	Description string    `json:"description" binding:"required"`
	Language    string    `json:"language" binding:"required,max=100"`
	Location    string    `json:"location" binding:"required,max=255"`
	StartsAt    time.Time `json:"startsAt" binding:"required"`
	EndsAt      time.Time `json:"endsAt" binding:"required"`
	Capacity    *int      `json:"capacity" binding:"omitempty,min=1"`
}

// UpdateEventInput represents input for updating an event. All fields are
// optional; absent fields are left untouched.
type UpdateEventInput struct {
	Title       *string    `json:"title" binding:"omitempty,max=255"`
	Description *string    `json:"description"`
	Language    *string    `json:"language" binding:"omitempty,max=100"`
	Location    *string    `json:"location" binding:"omitempty,max=255"`
	StartsAt    *time.Time `json:"startsAt"`
	EndsAt      *time.Time `json:"endsAt"`
	Capacity    *int       `json:"capacity" binding:"omitempty,min=1"`
}

// EventSearchParams holds the supported search filters. Provided filters are
// combined with AND; the free-text query matches title OR description.
type EventSearchParams struct {
	Query        string     `form:"q"`
	Location     string     `form:"location"`
	Language     string     `form:"language"`
	StartsAfter  *time.Time `form:"starts_after" time_format:"2006-01-02T15:04:05Z07:00"`
	StartsBefore *time.Time `form:"starts_before" time_format:"2006-01-02T15:04:05Z07:00"`
}
