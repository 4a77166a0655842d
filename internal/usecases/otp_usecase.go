package usecases

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"events-hub.backend/internal/config"
	"events-hub.backend/internal/domain/entities"
	domainerrors "events-hub.backend/internal/domain/errors"
	"events-hub.backend/internal/domain/repositories"
	"events-hub.backend/pkg/crypto"
	"events-hub.backend/pkg/logger"
	"events-hub.backend/pkg/mailer"
	"events-hub.backend/pkg/metrics"
	"events-hub.backend/pkg/utils"
)

// ResendGate rate-limits OTP resends per email address.
type ResendGate interface {
	Allow(ctx context.Context, subject string) (bool, error)
}

// OTPUsecase owns the one-time passcode lifecycle: issuing, delivery, and
// verification.
type OTPUsecase struct {
	otpRepo repositories.OTPRepository
	sender  mailer.Sender
	gate    ResendGate
	cfg     config.OTPConfig
	now     func() time.Time
}

// NewOTPUsecase creates a new OTP usecase
func NewOTPUsecase(otpRepo repositories.OTPRepository, sender mailer.Sender, gate ResendGate, cfg config.OTPConfig) *OTPUsecase {
	return &OTPUsecase{
		otpRepo: otpRepo,
		sender:  sender,
		gate:    gate,
		cfg:     cfg,
		now:     time.Now,
	}
}

// IssueAndSend creates a fresh code for the email (killing any live ones)
// and mails it. Mail failure is not fatal: the user can ask for a resend,
// and signup must not roll back on a provider hiccup.
func (u *OTPUsecase) IssueAndSend(ctx context.Context, email string) error {
	code, err := crypto.GenerateOTPCode()
	if err != nil {
		return err
	}

	now := u.now()
	otp := &entities.OTP{
		ID:        utils.GenerateUUIDv7(),
		Email:     email,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(u.cfg.Expiry),
	}
	if err := u.otpRepo.Issue(ctx, otp); err != nil {
		return err
	}

	subject, html := mailer.OTPEmail(code, u.cfg.Expiry)
	if err := u.sender.Send(ctx, email, subject, html); err != nil {
		metrics.EmailsFailed.WithLabelValues(metrics.KindOTP).Inc()
		logger.Warn(ctx, "otp email delivery failed", zap.String("email", email), zap.Error(err))
		return nil
	}
	metrics.EmailsSent.WithLabelValues(metrics.KindOTP).Inc()
	return nil
}

// Verify checks a submitted code. The whole decision runs in one
// transaction; the attempt counter moves before any outcome is decided, and
// the first disqualifying (or succeeding) path consumes the code for good.
func (u *OTPUsecase) Verify(ctx context.Context, email, code string) error {
	return u.otpRepo.Transaction(ctx, func(tx repositories.OTPRepository) error {
		otp, err := tx.GetLatestUnused(ctx, email, code)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return domainerrors.ErrOTPInvalid
			}
			return err
		}

		attempts, err := tx.IncrementAttempts(ctx, otp)
		if err != nil {
			return err
		}

		if attempts > u.cfg.MaxAttempts {
			if _, err := tx.Consume(ctx, otp); err != nil {
				return err
			}
			return domainerrors.ErrOTPAttemptsExceeded
		}
		if otp.IsExpired(u.now()) {
			if _, err := tx.Consume(ctx, otp); err != nil {
				return err
			}
			return domainerrors.ErrOTPExpired
		}

		consumed, err := tx.Consume(ctx, otp)
		if err != nil {
			return err
		}
		if !consumed {
			// lost the race to a concurrent verify
			return domainerrors.ErrOTPInvalid
		}
		return nil
	})
}

// AllowResend claims the per-email cooldown slot.
func (u *OTPUsecase) AllowResend(ctx context.Context, email string) error {
	ok, err := u.gate.Allow(ctx, email)
	if err != nil {
		logger.Warn(ctx, "otp resend gate unavailable", zap.Error(err))
		return nil
	}
	if !ok {
		return domainerrors.ErrOTPResendCooldown
	}
	return nil
}
