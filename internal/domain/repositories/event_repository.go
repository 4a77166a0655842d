package repositories

import (
	"context"

	"github.com/google/uuid"

	"events-hub.backend/internal/domain/entities"
	"events-hub.backend/pkg/utils"
)

// EventRepository defines event catalog operations
type EventRepository interface {
	Create(ctx context.Context, event *entities.Event) error
	// GetByID returns the event with its active enrollment count populated.
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Event, error)
	Update(ctx context.Context, event *entities.Event) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	// Search applies the provided filters ANDed together, ordered by
	// starts_at ascending, paginated.
	Search(ctx context.Context, params entities.EventSearchParams, p utils.PaginationParams) ([]*entities.Event, int64, error)
	// ListByCreator returns a facilitator's events newest-first with active
	// enrollment counts populated.
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]*entities.Event, error)
}
