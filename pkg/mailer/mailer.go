// Package mailer sends transactional email through Resend. Delivery is
// best-effort everywhere in this codebase: callers log failures and move on.
package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"

	"events-hub.backend/pkg/logger"
)

// Sender delivers a single email.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

const (
	maxSendAttempts = 3
	sendTimeout     = 10 * time.Second
)

// retryDelay is a hook for tests.
var retryDelay = 2 * time.Second

// ResendSender sends email via the Resend API with bounded retries on
// rate-limit and transient transport errors.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender creates a Resend-backed sender. From is rendered as
// "Name <address>".
func NewResendSender(apiKey, fromAddress, fromName string) *ResendSender {
	from := fromAddress
	if fromName != "" {
		from = fmt.Sprintf("%s <%s>", fromName, fromAddress)
	}
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

// Send delivers one email, retrying transient failures.
func (s *ResendSender) Send(ctx context.Context, to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	var lastErr error
	for attempt := 1; attempt <= maxSendAttempts; attempt++ {
		sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
		_, err := s.client.Emails.SendWithContext(sendCtx, params)
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err

		if !isRetryable(err) || attempt == maxSendAttempts {
			break
		}
		logger.Warn(ctx, "email send failed, retrying")
		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("send email to %s: %w", to, lastErr)
}

func isRetryable(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate") ||
		strings.Contains(msg, "429") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "temporar")
}

// LogSender writes emails to the log instead of sending them. Used in
// development and tests.
type LogSender struct{}

// NewLogSender creates a log-only sender
func NewLogSender() *LogSender {
	return &LogSender{}
}

// Send logs the email and succeeds.
func (s *LogSender) Send(ctx context.Context, to, subject, html string) error {
	logger.Info(ctx, fmt.Sprintf("email (log only) to=%s subject=%q", to, subject))
	return nil
}
