package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"events-hub.backend/internal/config"
	"events-hub.backend/internal/domain/entities"
	"events-hub.backend/internal/domain/repositories"
	"events-hub.backend/pkg/logger"
	"events-hub.backend/pkg/mailer"
	"events-hub.backend/pkg/metrics"
)

// NotificationScheduler periodically mails enrollment notifications:
// a reminder shortly before the event starts and a thank-you note shortly
// after enrolling. The marker is claimed only after a successful send, so a
// failed send is retried on the next pass; two passes overlapping an
// in-flight send can rarely duplicate a mail, but once the marker is
// persisted the notification is never sent again.
type NotificationScheduler struct {
	repo     repositories.EnrollmentRepository
	sender   mailer.Sender
	interval time.Duration
	offset   time.Duration
	span     time.Duration
	now      func() time.Time
	stop     chan struct{}
}

func NewNotificationScheduler(repo repositories.EnrollmentRepository, sender mailer.Sender, cfg config.SchedulerConfig) *NotificationScheduler {
	return &NotificationScheduler{
		repo:     repo,
		sender:   sender,
		interval: cfg.Interval,
		offset:   cfg.Offset,
		span:     cfg.Span,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

func (s *NotificationScheduler) Start(ctx context.Context) {
	logger.Info(ctx, "starting notification scheduler", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "notification scheduler stopped (context cancelled)")
			return
		case <-s.stop:
			logger.Info(ctx, "notification scheduler stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

func (s *NotificationScheduler) Stop() {
	close(s.stop)
}

// RunOnce executes one reminder pass and one follow-up pass. The passes are
// independent; a failure in one does not block the other.
func (s *NotificationScheduler) RunOnce(ctx context.Context) {
	ok := true
	if err := s.runReminders(ctx); err != nil {
		logger.Error(ctx, "reminder pass failed", zap.Error(err))
		ok = false
	}
	if err := s.runFollowups(ctx); err != nil {
		logger.Error(ctx, "follow-up pass failed", zap.Error(err))
		ok = false
	}
	if ok {
		metrics.SchedulerRuns.WithLabelValues("ok").Inc()
	} else {
		metrics.SchedulerRuns.WithLabelValues("error").Inc()
	}
}

// runReminders mails enrollees whose event starts inside [now+offset,
// now+offset+span].
func (s *NotificationScheduler) runReminders(ctx context.Context) error {
	now := s.now()
	due, err := s.repo.ListDueReminders(ctx, now.Add(s.offset), now.Add(s.offset+s.span))
	if err != nil {
		return err
	}

	for _, enrollment := range due {
		if enrollment.Event == nil || enrollment.SeekerEmail == "" {
			continue
		}
		subject, html := mailer.ReminderEmail(enrollment.Event.Title, enrollment.Event.Location, enrollment.Event.StartsAt)
		if err := s.sender.Send(ctx, enrollment.SeekerEmail, subject, html); err != nil {
			metrics.EmailsFailed.WithLabelValues(metrics.KindReminder).Inc()
			logger.Warn(ctx, "reminder email failed",
				zap.String("enrollment_id", enrollment.ID.String()), zap.Error(err))
			continue
		}
		won, err := s.repo.MarkReminderSent(ctx, enrollment.ID, s.now())
		if err != nil {
			logger.Warn(ctx, "failed to persist reminder marker",
				zap.String("enrollment_id", enrollment.ID.String()), zap.Error(err))
			continue
		}
		if won {
			metrics.EmailsSent.WithLabelValues(metrics.KindReminder).Inc()
		}
	}
	return nil
}

// runFollowups mails enrollees whose enrollment was created inside
// [now-offset-span, now-offset].
func (s *NotificationScheduler) runFollowups(ctx context.Context) error {
	now := s.now()
	due, err := s.repo.ListDueFollowups(ctx, now.Add(-s.offset-s.span), now.Add(-s.offset))
	if err != nil {
		return err
	}

	for _, enrollment := range due {
		if enrollment.Event == nil || enrollment.SeekerEmail == "" {
			continue
		}
		if enrollment.Status != entities.EnrollmentStatusEnrolled {
			continue
		}
		subject, html := mailer.FollowupEmail(enrollment.Event.Title)
		if err := s.sender.Send(ctx, enrollment.SeekerEmail, subject, html); err != nil {
			metrics.EmailsFailed.WithLabelValues(metrics.KindFollowup).Inc()
			logger.Warn(ctx, "follow-up email failed",
				zap.String("enrollment_id", enrollment.ID.String()), zap.Error(err))
			continue
		}
		won, err := s.repo.MarkFollowupSent(ctx, enrollment.ID, s.now())
		if err != nil {
			logger.Warn(ctx, "failed to persist follow-up marker",
				zap.String("enrollment_id", enrollment.ID.String()), zap.Error(err))
			continue
		}
		if won {
			metrics.EmailsSent.WithLabelValues(metrics.KindFollowup).Inc()
		}
	}
	return nil
}
