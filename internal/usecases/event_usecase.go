package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"events-hub.backend/internal/domain/authz"
	"events-hub.backend/internal/domain/entities"
	domainerrors "events-hub.backend/internal/domain/errors"
	"events-hub.backend/internal/domain/repositories"
	"events-hub.backend/pkg/utils"
)

// EventUsecase handles the event catalog business logic
type EventUsecase struct {
	eventRepo repositories.EventRepository
	now       func() time.Time
}

// NewEventUsecase creates a new event usecase
func NewEventUsecase(eventRepo repositories.EventRepository) *EventUsecase {
	return &EventUsecase{
		eventRepo: eventRepo,
		now:       time.Now,
	}
}

// Create publishes a new event owned by the facilitator.
func (u *EventUsecase) Create(ctx context.Context, userID uuid.UUID, role entities.UserRole, input *entities.CreateEventInput) (*entities.Event, error) {
	if err := authz.CanCreateEvent(role); err != nil {
		return nil, err
	}
	if err := validateEventWindow(input.StartsAt, input.EndsAt, u.now()); err != nil {
		return nil, err
	}

	now := u.now()
	event := &entities.Event{
		ID:          utils.GenerateUUIDv7(),
		Title:       input.Title,
		Description: input.Description,
		Language:    input.Language,
		Location:    input.Location,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		Capacity:    null.IntFromPtr(input.Capacity),
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := u.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Get returns one event with its enrollment count.
func (u *EventUsecase) Get(ctx context.Context, id uuid.UUID) (*entities.Event, error) {
	return u.eventRepo.GetByID(ctx, id)
}

// Update applies the provided fields to an event the caller owns.
func (u *EventUsecase) Update(ctx context.Context, userID uuid.UUID, role entities.UserRole, eventID uuid.UUID, input *entities.UpdateEventInput) (*entities.Event, error) {
	event, err := u.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := authz.CanModifyEvent(userID, role, event); err != nil {
		return nil, err
	}

	if input.Title != nil {
		event.Title = *input.Title
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	if input.Language != nil {
		event.Language = *input.Language
	}
	if input.Location != nil {
		event.Location = *input.Location
	}
	if input.StartsAt != nil {
		event.StartsAt = *input.StartsAt
	}
	if input.EndsAt != nil {
		event.EndsAt = *input.EndsAt
	}
	if input.Capacity != nil {
		event.Capacity = null.IntFromPtr(input.Capacity)
	}

	if !event.EndsAt.After(event.StartsAt) {
		return nil, domainerrors.BadRequest("endsAt must be after startsAt")
	}

	if err := u.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	return u.eventRepo.GetByID(ctx, eventID)
}

// Delete soft-deletes an event the caller owns.
func (u *EventUsecase) Delete(ctx context.Context, userID uuid.UUID, role entities.UserRole, eventID uuid.UUID) error {
	event, err := u.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if err := authz.CanModifyEvent(userID, role, event); err != nil {
		return err
	}
	return u.eventRepo.SoftDelete(ctx, eventID)
}

// Search runs the filtered catalog query.
func (u *EventUsecase) Search(ctx context.Context, params entities.EventSearchParams, p utils.PaginationParams) ([]*entities.Event, int64, error) {
	return u.eventRepo.Search(ctx, params, p)
}

// ListMine returns the facilitator's own events with enrollment counts.
func (u *EventUsecase) ListMine(ctx context.Context, userID uuid.UUID, role entities.UserRole) ([]*entities.Event, error) {
	if role != entities.UserRoleFacilitator {
		return nil, domainerrors.Forbidden("only facilitators have an event list")
	}
	return u.eventRepo.ListByCreator(ctx, userID)
}

func validateEventWindow(startsAt, endsAt, now time.Time) error {
	if !endsAt.After(startsAt) {
		return domainerrors.BadRequest("endsAt must be after startsAt")
	}
	if startsAt.Before(now) {
		return domainerrors.BadRequest("startsAt must not be in the past")
	}
	return nil
}
