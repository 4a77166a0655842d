package mailer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"events-hub.backend/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init("test")
	m.Run()
}

func TestLogSender(t *testing.T) {
	s := NewLogSender()
	assert.NoError(t, s.Send(context.Background(), "a@example.com", "hi", "<p>hi</p>"))
}

func TestResendSender_From(t *testing.T) {
	s := NewResendSender("key", "no-reply@example.com", "Events Hub")
	assert.Equal(t, "Events Hub <no-reply@example.com>", s.from)

	bare := NewResendSender("key", "no-reply@example.com", "")
	assert.Equal(t, "no-reply@example.com", bare.from)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(errors.New("429 too many requests")))
	assert.True(t, isRetryable(errors.New("rate limit exceeded")))
	assert.True(t, isRetryable(errors.New("i/o timeout")))
	assert.False(t, isRetryable(errors.New("invalid api key")))
}

func TestTemplates(t *testing.T) {
	subject, html := OTPEmail("042042", 10*time.Minute)
	assert.Equal(t, "Your verification code", subject)
	assert.Contains(t, html, "042042")
	assert.Contains(t, html, "10 minutes")

	startsAt := time.Date(2026, 5, 1, 18, 30, 0, 0, time.UTC)
	subject, html = ReminderEmail("Yoga", "Berlin", startsAt)
	assert.Contains(t, subject, "Yoga")
	assert.Contains(t, html, "Berlin")
	assert.Contains(t, html, "18:30")

	subject, html = FollowupEmail("Yoga")
	assert.Contains(t, subject, "Yoga")
	assert.Contains(t, html, "Thanks for enrolling")
}
