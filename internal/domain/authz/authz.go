// Package authz holds pure capability checks used by the usecases. Keeping
// them as functions over entities makes the rules testable without any
// transport or storage in the loop.
package authz

import (
	"github.com/google/uuid"

	"events-hub.backend/internal/domain/entities"
	domainErrors "events-hub.backend/internal/domain/errors"
)

// CanCreateEvent reports whether a user may publish events.
func CanCreateEvent(role entities.UserRole) error {
	if role != entities.UserRoleFacilitator {
		return domainErrors.Forbidden("only facilitators can create events")
	}
	return nil
}

// CanModifyEvent reports whether a user may update or delete an event.
// Ownership is required on top of the facilitator role.
func CanModifyEvent(userID uuid.UUID, role entities.UserRole, event *entities.Event) error {
	if role != entities.UserRoleFacilitator {
		return domainErrors.Forbidden("only facilitators can manage events")
	}
	if event.CreatedBy != userID {
		return domainErrors.Forbidden("you do not own this event")
	}
	return nil
}

// CanEnroll reports whether a user may enroll into events.
func CanEnroll(role entities.UserRole) error {
	if role != entities.UserRoleSeeker {
		return domainErrors.Forbidden("only seekers can enroll")
	}
	return nil
}
