package repositories

import (
	"context"
	"time"

	"events-hub.backend/internal/domain/entities"
)

// OTPRepository defines one-time passcode storage. Issue and Verify are
// transactional on the implementation side; callers see single operations.
type OTPRepository interface {
	// Issue invalidates every unused code for the email and stores a fresh
	// one in the same transaction.
	Issue(ctx context.Context, otp *entities.OTP) error
	// GetLatestUnused returns the newest unused row matching email and code,
	// locked for update where the database supports it.
	GetLatestUnused(ctx context.Context, email, code string) (*entities.OTP, error)
	// IncrementAttempts bumps the attempt counter and returns the new value.
	IncrementAttempts(ctx context.Context, otp *entities.OTP) (int, error)
	// Consume marks the code used. Guarded on is_used = false; reports
	// whether this call actually consumed it.
	Consume(ctx context.Context, otp *entities.OTP) (bool, error)
	// Transaction runs fn against a repository bound to a single database
	// transaction.
	Transaction(ctx context.Context, fn func(txRepo OTPRepository) error) error
	// DeleteExpiredBefore removes dead rows for housekeeping.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
