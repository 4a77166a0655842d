package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"events-hub.backend/internal/domain/entities"
)

// EnrollmentRepository defines enrollment storage. Enroll runs in a single
// transaction on the implementation side so the capacity check and the
// insert (or status flip) cannot interleave.
type EnrollmentRepository interface {
	// Enroll locks the event row, checks the event window and capacity, and
	// either inserts a fresh enrollment or revives a canceled one.
	Enroll(ctx context.Context, eventID, seekerID uuid.UUID, now time.Time) (*entities.Enrollment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Enrollment, error)
	// Cancel flips an enrolled row owned by seekerID to canceled.
	Cancel(ctx context.Context, id, seekerID uuid.UUID) (*entities.Enrollment, error)
	// ListBySeeker returns enrolled rows with events preloaded, filtered by
	// the upcoming/past window, newest-first.
	ListBySeeker(ctx context.Context, seekerID uuid.UUID, listType entities.EnrollmentListType, now time.Time) ([]*entities.Enrollment, error)
	CountActiveByEvent(ctx context.Context, eventID uuid.UUID) (int64, error)

	// Notification scan support. Both return enrolled rows whose marker is
	// still NULL and whose anchor timestamp falls inside [from, to].
	ListDueFollowups(ctx context.Context, from, to time.Time) ([]*entities.Enrollment, error)
	ListDueReminders(ctx context.Context, from, to time.Time) ([]*entities.Enrollment, error)
	// MarkFollowupSent / MarkReminderSent set the marker only when it is
	// still NULL and report whether this call won.
	MarkFollowupSent(ctx context.Context, id uuid.UUID, sentAt time.Time) (bool, error)
	MarkReminderSent(ctx context.Context, id uuid.UUID, sentAt time.Time) (bool, error)
}
