package usecases_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"events-hub.backend/internal/domain/entities"
	"events-hub.backend/internal/domain/repositories"
	"events-hub.backend/pkg/utils"
)

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) MarkEmailVerified(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// Mock OTPRepository
type MockOTPRepository struct {
	mock.Mock
}

func (m *MockOTPRepository) Issue(ctx context.Context, otp *entities.OTP) error {
	args := m.Called(ctx, otp)
	return args.Error(0)
}

func (m *MockOTPRepository) GetLatestUnused(ctx context.Context, email, code string) (*entities.OTP, error) {
	args := m.Called(ctx, email, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.OTP), args.Error(1)
}

func (m *MockOTPRepository) IncrementAttempts(ctx context.Context, otp *entities.OTP) (int, error) {
	args := m.Called(ctx, otp)
	return args.Int(0), args.Error(1)
}

func (m *MockOTPRepository) Consume(ctx context.Context, otp *entities.OTP) (bool, error) {
	args := m.Called(ctx, otp)
	return args.Bool(0), args.Error(1)
}

func (m *MockOTPRepository) Transaction(ctx context.Context, fn func(txRepo repositories.OTPRepository) error) error {
	m.Called(ctx, fn)
	return fn(m)
}

func (m *MockOTPRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// Mock EventRepository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, event *entities.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Event), args.Error(1)
}

func (m *MockEventRepository) Update(ctx context.Context, event *entities.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEventRepository) Search(ctx context.Context, params entities.EventSearchParams, p utils.PaginationParams) ([]*entities.Event, int64, error) {
	args := m.Called(ctx, params, p)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Event), args.Get(1).(int64), args.Error(2)
}

func (m *MockEventRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]*entities.Event, error) {
	args := m.Called(ctx, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Event), args.Error(1)
}

// Mock EnrollmentRepository
type MockEnrollmentRepository struct {
	mock.Mock
}

func (m *MockEnrollmentRepository) Enroll(ctx context.Context, eventID, seekerID uuid.UUID, now time.Time) (*entities.Enrollment, error) {
	args := m.Called(ctx, eventID, seekerID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Enrollment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) Cancel(ctx context.Context, id, seekerID uuid.UUID) (*entities.Enrollment, error) {
	args := m.Called(ctx, id, seekerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) ListBySeeker(ctx context.Context, seekerID uuid.UUID, listType entities.EnrollmentListType, now time.Time) ([]*entities.Enrollment, error) {
	args := m.Called(ctx, seekerID, listType, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) CountActiveByEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEnrollmentRepository) ListDueFollowups(ctx context.Context, from, to time.Time) ([]*entities.Enrollment, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) ListDueReminders(ctx context.Context, from, to time.Time) ([]*entities.Enrollment, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) MarkFollowupSent(ctx context.Context, id uuid.UUID, sentAt time.Time) (bool, error) {
	args := m.Called(ctx, id, sentAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockEnrollmentRepository) MarkReminderSent(ctx context.Context, id uuid.UUID, sentAt time.Time) (bool, error) {
	args := m.Called(ctx, id, sentAt)
	return args.Bool(0), args.Error(1)
}

// Mock mail Sender
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, to, subject, html string) error {
	args := m.Called(ctx, to, subject, html)
	return args.Error(0)
}

// Mock ResendGate
type MockGate struct {
	mock.Mock
}

func (m *MockGate) Allow(ctx context.Context, subject string) (bool, error) {
	args := m.Called(ctx, subject)
	return args.Bool(0), args.Error(1)
}
