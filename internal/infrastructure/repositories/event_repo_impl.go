package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"events-hub.backend/internal/domain/entities"
	domainerrors "events-hub.backend/internal/domain/errors"
	"events-hub.backend/internal/infrastructure/models"
	"events-hub.backend/pkg/utils"
)

// eventWithCount is the scan target for event queries that pull the active
// enrollment count alongside the row.
type eventWithCount struct {
	models.Event
	EnrolledCount int
	CreatorEmail  string
}

const enrolledCountExpr = `(SELECT COUNT(*) FROM enrollments
	WHERE enrollments.event_id = events.id AND enrollments.status = 'enrolled')`

// EventRepository implements event catalog operations
type EventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create creates a new event
func (r *EventRepository) Create(ctx context.Context, event *entities.Event) error {
	m := &models.Event{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		Language:    event.Language,
		Location:    event.Location,
		StartsAt:    event.StartsAt,
		EndsAt:      event.EndsAt,
		Capacity:    event.Capacity.Ptr(),
		CreatedBy:   event.CreatedBy,
		CreatedAt:   event.CreatedAt,
		UpdatedAt:   event.UpdatedAt,
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// GetByID gets an event by ID with its active enrollment count
func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Event, error) {
	var row eventWithCount
	err := r.db.WithContext(ctx).
		Model(&models.Event{}).
		Select("events.*, "+enrolledCountExpr+" AS enrolled_count, users.email AS creator_email").
		Joins("LEFT JOIN users ON users.id = events.created_by").
		Where("events.id = ?", id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&row), nil
}

// Update persists the mutable fields of an event
func (r *EventRepository) Update(ctx context.Context, event *entities.Event) error {
	updates := map[string]interface{}{
		"title":       event.Title,
		"description": event.Description,
		"language":    event.Language,
		"location":    event.Location,
		"starts_at":   event.StartsAt,
		"ends_at":     event.EndsAt,
		"capacity":    event.Capacity.Ptr(),
		"updated_at":  time.Now(),
	}

	result := r.db.WithContext(ctx).Model(&models.Event{}).Where("id = ?", event.ID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// SoftDelete soft deletes an event
func (r *EventRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Event{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// Search applies the provided filters ANDed together, ordered by starts_at
// ascending. LOWER(...) LIKE keeps the match case-insensitive on both
// postgres and sqlite.
func (r *EventRepository) Search(ctx context.Context, params entities.EventSearchParams, p utils.PaginationParams) ([]*entities.Event, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Event{})

	if params.Query != "" {
		term := "%" + params.Query + "%"
		query = query.Where("LOWER(events.title) LIKE LOWER(?) OR LOWER(events.description) LIKE LOWER(?)", term, term)
	}
	if params.Location != "" {
		query = query.Where("LOWER(events.location) LIKE LOWER(?)", "%"+params.Location+"%")
	}
	if params.Language != "" {
		query = query.Where("LOWER(events.language) LIKE LOWER(?)", "%"+params.Language+"%")
	}
	if params.StartsAfter != nil {
		query = query.Where("events.starts_at >= ?", *params.StartsAfter)
	}
	if params.StartsBefore != nil {
		query = query.Where("events.starts_at <= ?", *params.StartsBefore)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.
		Select("events.*, " + enrolledCountExpr + " AS enrolled_count").
		Order("events.starts_at ASC")
	if p.Limit > 0 {
		query = query.Limit(p.Limit).Offset(p.CalculateOffset())
	}

	var rows []eventWithCount
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	events := make([]*entities.Event, 0, len(rows))
	for i := range rows {
		events = append(events, r.toEntity(&rows[i]))
	}
	return events, total, nil
}

// ListByCreator returns a facilitator's events newest-first with active
// enrollment counts
func (r *EventRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]*entities.Event, error) {
	var rows []eventWithCount
	err := r.db.WithContext(ctx).
		Model(&models.Event{}).
		Select("events.*, "+enrolledCountExpr+" AS enrolled_count").
		Where("events.created_by = ?", creatorID).
		Order("events.created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	events := make([]*entities.Event, 0, len(rows))
	for i := range rows {
		events = append(events, r.toEntity(&rows[i]))
	}
	return events, nil
}

func (r *EventRepository) toEntity(row *eventWithCount) *entities.Event {
	return &entities.Event{
		ID:               row.ID,
		Title:            row.Title,
		Description:      row.Description,
		Language:         row.Language,
		Location:         row.Location,
		StartsAt:         row.StartsAt,
		EndsAt:           row.EndsAt,
		Capacity:         null.IntFromPtr(row.Capacity),
		CreatedBy:        row.CreatedBy,
		CreatedByEmail:   row.CreatorEmail,
		TotalEnrollments: row.EnrolledCount,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}
