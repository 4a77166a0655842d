package repositories

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"events-hub.backend/internal/domain/entities"
	domainerrors "events-hub.backend/internal/domain/errors"
)

func seedSeeker(t *testing.T, repo *UserRepository, email string) *entities.User {
	t.Helper()
	u := &entities.User{
		ID:            uuid.New(),
		Email:         email,
		PasswordHash:  "h",
		Role:          entities.UserRoleSeeker,
		EmailVerified: true,
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestEnrollmentRepository_EnrollAndCancel(t *testing.T) {
	db := newTestDB(t)
	createAllTables(t, db)
	users := NewUserRepository(db)
	events := NewEventRepository(db)
	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	fac := seedFacilitator(t, users, "fac@example.com")
	seeker := seedSeeker(t, users, "seek@example.com")
	e := seedEvent(t, events, fac.ID, "Workshop", time.Hour, null.IntFrom(5))

	enr, err := repo.Enroll(ctx, e.ID, seeker.ID, time.Now())
	require.NoError(t, err)
	require.Equal(t, entities.EnrollmentStatusEnrolled, enr.Status)

	// double enroll is rejected
	_, err = repo.Enroll(ctx, e.ID, seeker.ID, time.Now())
	require.ErrorIs(t, err, domainerrors.ErrAlreadyEnrolled)

	canceled, err := repo.Cancel(ctx, enr.ID, seeker.ID)
	require.NoError(t, err)
	require.Equal(t, entities.EnrollmentStatusCanceled, canceled.Status)

	_, err = repo.Cancel(ctx, enr.ID, seeker.ID)
	require.ErrorIs(t, err, domainerrors.ErrAlreadyCanceled)
}

func TestEnrollmentRepository_ReEnrollRevivesRow(t *testing.T) {
	db := newTestDB(t)
	createAllTables(t, db)
	users := NewUserRepository(db)
	events := NewEventRepository(db)
	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	fac := seedFacilitator(t, users, "fac@example.com")
	seeker := seedSeeker(t, users, "seek@example.com")
	e := seedEvent(t, events, fac.ID, "Workshop", time.Hour, null.Int{})

	enr, err := repo.Enroll(ctx, e.ID, seeker.ID, time.Now())
	require.NoError(t, err)

	// set a marker so we can observe the reset on re-enroll
	won, err := repo.MarkReminderSent(ctx, enr.ID, time.Now())
	require.NoError(t, err)
	require.True(t, won)

	_, err = repo.Cancel(ctx, enr.ID, seeker.ID)
	require.NoError(t, err)

	again, err := repo.Enroll(ctx, e.ID, seeker.ID, time.Now())
	require.NoError(t, err)
	require.Equal(t, enr.ID, again.ID, "same row revived, not a new one")

	got, err := repo.GetByID(ctx, enr.ID)
	require.NoError(t, err)
	require.Equal(t, entities.EnrollmentStatusEnrolled, got.Status)
	require.Nil(t, got.ReminderSentAt)
	require.Nil(t, got.FollowupSentAt)
}

func TestEnrollmentRepository_CapacityAndPast(t *testing.T) {
	db := newTestDB(t)
	createAllTables(t, db)
	users := NewUserRepository(db)
	events := NewEventRepository(db)
	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	fac := seedFacilitator(t, users, "fac@example.com")
	e := seedEvent(t, events, fac.ID, "Tiny", time.Hour, null.IntFrom(1))

	_, err := repo.Enroll(ctx, e.ID, uuid.New(), time.Now())
	require.NoError(t, err)

	_, err = repo.Enroll(ctx, e.ID, uuid.New(), time.Now())
	require.ErrorIs(t, err, domainerrors.ErrEventFull)

	count, err := repo.CountActiveByEvent(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	past := seedEvent(t, events, fac.ID, "Done", -3*time.Hour, null.Int{})
	_, err = repo.Enroll(ctx, past.ID, uuid.New(), time.Now())
	require.ErrorIs(t, err, domainerrors.ErrEventPast)

	// in-progress events still accept enrollments
	running := seedEvent(t, events, fac.ID, "Running", -30*time.Minute, null.Int{})
	_, err = repo.Enroll(ctx, running.ID, uuid.New(), time.Now())
	require.NoError(t, err)

	_, err = repo.Enroll(ctx, uuid.New(), uuid.New(), time.Now())
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestEnrollmentRepository_ConcurrentEnrollRespectsCapacity(t *testing.T) {
	db := newTestDB(t)
	createAllTables(t, db)
	users := NewUserRepository(db)
	events := NewEventRepository(db)
	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	// one connection so sqlite serializes the competing transactions instead
	// of failing them with a busy error
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	fac := seedFacilitator(t, users, "fac@example.com")
	e := seedEvent(t, events, fac.ID, "Tiny", time.Hour, null.IntFrom(1))

	const contenders = 8
	errs := make([]error, contenders)
	var wg sync.WaitGroup
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Enroll(ctx, e.ID, uuid.New(), time.Now())
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, domainerrors.ErrEventFull)
	}
	require.Equal(t, 1, succeeded, "exactly one contender gets the last seat")

	count, err := repo.CountActiveByEvent(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestEnrollmentRepository_CanceledSeatFreesCapacity(t *testing.T) {
	db := newTestDB(t)
	createAllTables(t, db)
	users := NewUserRepository(db)
	events := NewEventRepository(db)
	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	fac := seedFacilitator(t, users, "fac@example.com")
	e := seedEvent(t, events, fac.ID, "Tiny", time.Hour, null.IntFrom(1))

	first := uuid.New()
	enr, err := repo.Enroll(ctx, e.ID, first, time.Now())
	require.NoError(t, err)
	_, err = repo.Cancel(ctx, enr.ID, first)
	require.NoError(t, err)

	_, err = repo.Enroll(ctx, e.ID, uuid.New(), time.Now())
	require.NoError(t, err)
}

func TestEnrollmentRepository_CancelOwnership(t *testing.T) {
	db := newTestDB(t)
	createAllTables(t, db)
	users := NewUserRepository(db)
	events := NewEventRepository(db)
	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	fac := seedFacilitator(t, users, "fac@example.com")
	seeker := seedSeeker(t, users, "seek@example.com")
	e := seedEvent(t, events, fac.ID, "Workshop", time.Hour, null.Int{})

	enr, err := repo.Enroll(ctx, e.ID, seeker.ID, time.Now())
	require.NoError(t, err)

	// someone else's id: looks like not found
	_, err = repo.Cancel(ctx, enr.ID, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestEnrollmentRepository_ListBySeeker(t *testing.T) {
	db := newTestDB(t)
	createAllTables(t, db)
	users := NewUserRepository(db)
	events := NewEventRepository(db)
	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	fac := seedFacilitator(t, users, "fac@example.com")
	seeker := seedSeeker(t, users, "seek@example.com")
	now := time.Now()

	upcoming := seedEvent(t, events, fac.ID, "Soon", 2*time.Hour, null.Int{})
	past := seedEvent(t, events, fac.ID, "Gone", -5*time.Hour, null.Int{})

	_, err := repo.Enroll(ctx, upcoming.ID, seeker.ID, now)
	require.NoError(t, err)
	// past event enrollment seeded directly; Enroll would refuse it
	mustExec(t, db, `INSERT INTO enrollments (id, event_id, seeker_id, status, created_at, updated_at)
		VALUES (?, ?, ?, 'enrolled', ?, ?)`, uuid.New().String(), past.ID.String(), seeker.ID.String(), now.Add(-6*time.Hour), now.Add(-6*time.Hour))

	all, err := repo.ListBySeeker(ctx, seeker.ID, entities.EnrollmentListAll, now)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.NotNil(t, all[0].Event)
	require.Equal(t, "Soon", all[0].Event.Title, "newest enrollment first")

	up, err := repo.ListBySeeker(ctx, seeker.ID, entities.EnrollmentListUpcoming, now)
	require.NoError(t, err)
	require.Len(t, up, 1)
	require.Equal(t, upcoming.ID, up[0].EventID)

	pastList, err := repo.ListBySeeker(ctx, seeker.ID, entities.EnrollmentListPast, now)
	require.NoError(t, err)
	require.Len(t, pastList, 1)
	require.Equal(t, past.ID, pastList[0].EventID)
}

func TestEnrollmentRepository_DueScansAndMarkers(t *testing.T) {
	db := newTestDB(t)
	createAllTables(t, db)
	users := NewUserRepository(db)
	events := NewEventRepository(db)
	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	fac := seedFacilitator(t, users, "fac@example.com")
	seeker := seedSeeker(t, users, "seek@example.com")
	now := time.Now()

	// event starting in ~62 minutes: inside the reminder window
	soon := seedEvent(t, events, fac.ID, "Soon", 62*time.Minute, null.Int{})
	enr, err := repo.Enroll(ctx, soon.ID, seeker.ID, now)
	require.NoError(t, err)

	due, err := repo.ListDueReminders(ctx, now.Add(60*time.Minute), now.Add(65*time.Minute))
	require.NoError(t, err)
	require.Len(t, due, 1)
	require.Equal(t, enr.ID, due[0].ID)
	require.Equal(t, "seek@example.com", due[0].SeekerEmail)
	require.NotNil(t, due[0].Event)
	require.Equal(t, "Soon", due[0].Event.Title)

	won, err := repo.MarkReminderSent(ctx, enr.ID, now)
	require.NoError(t, err)
	require.True(t, won)

	// marker set: row drops out of the scan and the second marker loses
	due, err = repo.ListDueReminders(ctx, now.Add(60*time.Minute), now.Add(65*time.Minute))
	require.NoError(t, err)
	require.Empty(t, due)

	won, err = repo.MarkReminderSent(ctx, enr.ID, now)
	require.NoError(t, err)
	require.False(t, won)

	// follow-up scan keys off enrollment created_at
	followDue, err := repo.ListDueFollowups(ctx, now.Add(-time.Minute), now.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, followDue, 1)

	won, err = repo.MarkFollowupSent(ctx, enr.ID, now)
	require.NoError(t, err)
	require.True(t, won)

	followDue, err = repo.ListDueFollowups(ctx, now.Add(-time.Minute), now.Add(time.Minute))
	require.NoError(t, err)
	require.Empty(t, followDue)
}

func TestEnrollmentRepository_DueScansSkipCanceled(t *testing.T) {
	db := newTestDB(t)
	createAllTables(t, db)
	users := NewUserRepository(db)
	events := NewEventRepository(db)
	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	fac := seedFacilitator(t, users, "fac@example.com")
	seeker := seedSeeker(t, users, "seek@example.com")
	now := time.Now()

	soon := seedEvent(t, events, fac.ID, "Soon", 62*time.Minute, null.Int{})
	enr, err := repo.Enroll(ctx, soon.ID, seeker.ID, now)
	require.NoError(t, err)
	_, err = repo.Cancel(ctx, enr.ID, seeker.ID)
	require.NoError(t, err)

	due, err := repo.ListDueReminders(ctx, now.Add(60*time.Minute), now.Add(65*time.Minute))
	require.NoError(t, err)
	require.Empty(t, due)
}
