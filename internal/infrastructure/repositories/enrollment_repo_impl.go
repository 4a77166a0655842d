package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"events-hub.backend/internal/domain/entities"
	domainerrors "events-hub.backend/internal/domain/errors"
	"events-hub.backend/internal/infrastructure/models"
	"events-hub.backend/pkg/utils"
)

// EnrollmentRepository implements enrollment storage
type EnrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Enroll runs the whole admission decision in one transaction. The event row
// is locked first (FOR UPDATE on postgres; the sqlite driver drops the
// clause but serializes writers itself), so the capacity count cannot go
// stale between check and insert. The unique (event_id, seeker_id) index
// backstops duplicate races that slip past the existing-row check.
func (r *EnrollmentRepository) Enroll(ctx context.Context, eventID, seekerID uuid.UUID, now time.Time) (*entities.Enrollment, error) {
	var out *entities.Enrollment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", eventID).
			First(&event).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrNotFound
			}
			return err
		}
		if now.After(event.EndsAt) {
			return domainerrors.ErrEventPast
		}

		var existing models.Enrollment
		err := tx.Where("event_id = ? AND seeker_id = ?", eventID, seekerID).First(&existing).Error
		switch {
		case err == nil:
			if existing.Status == string(entities.EnrollmentStatusEnrolled) {
				return domainerrors.ErrAlreadyEnrolled
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// fresh enrollment
		default:
			return err
		}

		if event.Capacity != nil {
			var enrolled int64
			if err := tx.Model(&models.Enrollment{}).
				Where("event_id = ? AND status = ?", eventID, string(entities.EnrollmentStatusEnrolled)).
				Count(&enrolled).Error; err != nil {
				return err
			}
			if enrolled >= int64(*event.Capacity) {
				return domainerrors.ErrEventFull
			}
		}

		if existing.ID != uuid.Nil {
			// revive the canceled row; send markers start over
			updates := map[string]interface{}{
				"status":           string(entities.EnrollmentStatusEnrolled),
				"reminder_sent_at": nil,
				"followup_sent_at": nil,
				"created_at":       now,
				"updated_at":       now,
			}
			if err := tx.Model(&models.Enrollment{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
				return err
			}
			out = &entities.Enrollment{
				ID:        existing.ID,
				EventID:   eventID,
				SeekerID:  seekerID,
				Status:    entities.EnrollmentStatusEnrolled,
				CreatedAt: now,
				UpdatedAt: now,
			}
			return nil
		}

		m := &models.Enrollment{
			ID:        utils.GenerateUUIDv7(),
			EventID:   eventID,
			SeekerID:  seekerID,
			Status:    string(entities.EnrollmentStatusEnrolled),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Create(m).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrAlreadyEnrolled
			}
			return err
		}
		out = r.toEntity(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID gets an enrollment by ID
func (r *EnrollmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Enrollment, error) {
	var m models.Enrollment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// Cancel flips an enrolled row owned by seekerID to canceled. Rows owned by
// someone else look like not found so the endpoint leaks nothing.
func (r *EnrollmentRepository) Cancel(ctx context.Context, id, seekerID uuid.UUID) (*entities.Enrollment, error) {
	var out *entities.Enrollment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m models.Enrollment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND seeker_id = ?", id, seekerID).
			First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrNotFound
			}
			return err
		}
		if m.Status == string(entities.EnrollmentStatusCanceled) {
			return domainerrors.ErrAlreadyCanceled
		}

		now := time.Now()
		if err := tx.Model(&models.Enrollment{}).Where("id = ?", m.ID).Updates(map[string]interface{}{
			"status":     string(entities.EnrollmentStatusCanceled),
			"updated_at": now,
		}).Error; err != nil {
			return err
		}
		m.Status = string(entities.EnrollmentStatusCanceled)
		m.UpdatedAt = now
		out = r.toEntity(&m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListBySeeker returns enrolled rows with events preloaded, newest-first.
func (r *EnrollmentRepository) ListBySeeker(ctx context.Context, seekerID uuid.UUID, listType entities.EnrollmentListType, now time.Time) ([]*entities.Enrollment, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Joins("JOIN events ON events.id = enrollments.event_id AND events.deleted_at IS NULL").
		Where("enrollments.seeker_id = ? AND enrollments.status = ?", seekerID, string(entities.EnrollmentStatusEnrolled))

	switch listType {
	case entities.EnrollmentListUpcoming:
		query = query.Where("events.starts_at > ?", now)
	case entities.EnrollmentListPast:
		query = query.Where("events.ends_at < ?", now)
	}

	var rows []models.Enrollment
	if err := query.Preload("Event").Order("enrollments.created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	enrollments := make([]*entities.Enrollment, 0, len(rows))
	for i := range rows {
		e := r.toEntity(&rows[i])
		e.Event = eventModelToEntity(&rows[i].Event)
		enrollments = append(enrollments, e)
	}
	return enrollments, nil
}

// CountActiveByEvent counts enrolled rows for an event
func (r *EnrollmentRepository) CountActiveByEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("event_id = ? AND status = ?", eventID, string(entities.EnrollmentStatusEnrolled)).
		Count(&count).Error
	return count, err
}

// ListDueFollowups returns enrolled rows created inside [from, to] whose
// follow-up mail has not been sent.
func (r *EnrollmentRepository) ListDueFollowups(ctx context.Context, from, to time.Time) ([]*entities.Enrollment, error) {
	return r.listDue(ctx, "enrollments.followup_sent_at IS NULL AND enrollments.created_at BETWEEN ? AND ?", from, to)
}

// ListDueReminders returns enrolled rows whose event starts inside [from, to]
// and whose reminder has not been sent.
func (r *EnrollmentRepository) ListDueReminders(ctx context.Context, from, to time.Time) ([]*entities.Enrollment, error) {
	return r.listDue(ctx, "enrollments.reminder_sent_at IS NULL AND events.starts_at BETWEEN ? AND ?", from, to)
}

func (r *EnrollmentRepository) listDue(ctx context.Context, cond string, from, to time.Time) ([]*entities.Enrollment, error) {
	var rows []struct {
		models.Enrollment
		SeekerEmail string
	}
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Select("enrollments.*, users.email AS seeker_email").
		Joins("JOIN events ON events.id = enrollments.event_id AND events.deleted_at IS NULL").
		Joins("JOIN users ON users.id = enrollments.seeker_id").
		Where("enrollments.status = ?", string(entities.EnrollmentStatusEnrolled)).
		Where(cond, from, to).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	eventIDs := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		eventIDs = append(eventIDs, rows[i].EventID)
	}
	var eventRows []models.Event
	if err := r.db.WithContext(ctx).Where("id IN ?", eventIDs).Find(&eventRows).Error; err != nil {
		return nil, err
	}
	eventsByID := make(map[uuid.UUID]*models.Event, len(eventRows))
	for i := range eventRows {
		eventsByID[eventRows[i].ID] = &eventRows[i]
	}

	enrollments := make([]*entities.Enrollment, 0, len(rows))
	for i := range rows {
		e := r.toEntity(&rows[i].Enrollment)
		e.SeekerEmail = rows[i].SeekerEmail
		e.Event = eventModelToEntity(eventsByID[rows[i].EventID])
		enrollments = append(enrollments, e)
	}
	return enrollments, nil
}

// MarkFollowupSent sets the follow-up marker if it is still unset.
func (r *EnrollmentRepository) MarkFollowupSent(ctx context.Context, id uuid.UUID, sentAt time.Time) (bool, error) {
	return r.markSent(ctx, id, "followup_sent_at", sentAt)
}

// MarkReminderSent sets the reminder marker if it is still unset.
func (r *EnrollmentRepository) MarkReminderSent(ctx context.Context, id uuid.UUID, sentAt time.Time) (bool, error) {
	return r.markSent(ctx, id, "reminder_sent_at", sentAt)
}

func (r *EnrollmentRepository) markSent(ctx context.Context, id uuid.UUID, column string, sentAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("id = ? AND "+column+" IS NULL", id).
		Update(column, sentAt)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *EnrollmentRepository) toEntity(m *models.Enrollment) *entities.Enrollment {
	return &entities.Enrollment{
		ID:             m.ID,
		EventID:        m.EventID,
		SeekerID:       m.SeekerID,
		Status:         entities.EnrollmentStatus(m.Status),
		ReminderSentAt: m.ReminderSentAt,
		FollowupSentAt: m.FollowupSentAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func eventModelToEntity(m *models.Event) *entities.Event {
	if m == nil || m.ID == uuid.Nil {
		return nil
	}
	return &entities.Event{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Language:    m.Language,
		Location:    m.Location,
		StartsAt:    m.StartsAt,
		EndsAt:      m.EndsAt,
		Capacity:    null.IntFromPtr(m.Capacity),
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
