package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"

	"events-hub.backend/internal/domain/authz"
	"events-hub.backend/internal/domain/entities"
	"events-hub.backend/internal/domain/repositories"
	"events-hub.backend/pkg/metrics"
)

// EnrollmentUsecase handles the enrollment state machine
type EnrollmentUsecase struct {
	enrollmentRepo repositories.EnrollmentRepository
	now            func() time.Time
}

// NewEnrollmentUsecase creates a new enrollment usecase
func NewEnrollmentUsecase(enrollmentRepo repositories.EnrollmentRepository) *EnrollmentUsecase {
	return &EnrollmentUsecase{
		enrollmentRepo: enrollmentRepo,
		now:            time.Now,
	}
}

// Enroll admits a seeker into an event. Window, capacity, and duplicate
// checks run inside the repository transaction.
func (u *EnrollmentUsecase) Enroll(ctx context.Context, seekerID uuid.UUID, role entities.UserRole, eventID uuid.UUID) (*entities.Enrollment, error) {
	if err := authz.CanEnroll(role); err != nil {
		return nil, err
	}
	enrollment, err := u.enrollmentRepo.Enroll(ctx, eventID, seekerID, u.now())
	if err != nil {
		return nil, err
	}
	metrics.Enrollments.WithLabelValues("enrolled").Inc()
	return enrollment, nil
}

// Cancel flips the seeker's enrollment to canceled.
func (u *EnrollmentUsecase) Cancel(ctx context.Context, seekerID uuid.UUID, role entities.UserRole, enrollmentID uuid.UUID) (*entities.Enrollment, error) {
	if err := authz.CanEnroll(role); err != nil {
		return nil, err
	}
	enrollment, err := u.enrollmentRepo.Cancel(ctx, enrollmentID, seekerID)
	if err != nil {
		return nil, err
	}
	metrics.Enrollments.WithLabelValues("canceled").Inc()
	return enrollment, nil
}

// List returns the seeker's active enrollments, optionally filtered to
// upcoming or past events.
func (u *EnrollmentUsecase) List(ctx context.Context, seekerID uuid.UUID, role entities.UserRole, listType entities.EnrollmentListType) ([]*entities.Enrollment, error) {
	if err := authz.CanEnroll(role); err != nil {
		return nil, err
	}
	if listType != entities.EnrollmentListUpcoming && listType != entities.EnrollmentListPast {
		listType = entities.EnrollmentListAll
	}
	return u.enrollmentRepo.ListBySeeker(ctx, seekerID, listType, u.now())
}
