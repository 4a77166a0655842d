package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"events-hub.backend/internal/domain/entities"
	domainerrors "events-hub.backend/internal/domain/errors"
	"events-hub.backend/internal/domain/repositories"
	"events-hub.backend/internal/infrastructure/models"
)

// OTPRepository implements one-time passcode storage
type OTPRepository struct {
	db *gorm.DB
}

// NewOTPRepository creates a new OTP repository
func NewOTPRepository(db *gorm.DB) *OTPRepository {
	return &OTPRepository{db: db}
}

// Issue invalidates all unused codes for the email and inserts the fresh one
// in a single transaction, so at most one code is live per address.
func (r *OTPRepository) Issue(ctx context.Context, otp *entities.OTP) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.OTP{}).
			Where("email = ? AND is_used = ?", otp.Email, false).
			Update("is_used", true).Error; err != nil {
			return err
		}
		m := &models.OTP{
			ID:        otp.ID,
			Email:     otp.Email,
			Code:      otp.Code,
			Attempts:  otp.Attempts,
			IsUsed:    otp.IsUsed,
			ExpiresAt: otp.ExpiresAt,
			CreatedAt: otp.CreatedAt,
		}
		return tx.Create(m).Error
	})
}

// GetLatestUnused returns the newest unused row for (email, code). The row
// lock only takes effect on postgres; sqlite serializes writes on its own.
func (r *OTPRepository) GetLatestUnused(ctx context.Context, email, code string) (*entities.OTP, error) {
	var m models.OTP
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("email = ? AND code = ? AND is_used = ?", email, code, false).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// IncrementAttempts bumps the attempt counter and refreshes the entity.
func (r *OTPRepository) IncrementAttempts(ctx context.Context, otp *entities.OTP) (int, error) {
	result := r.db.WithContext(ctx).
		Model(&models.OTP{}).
		Where("id = ?", otp.ID).
		Update("attempts", gorm.Expr("attempts + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, domainerrors.ErrNotFound
	}

	var m models.OTP
	if err := r.db.WithContext(ctx).Where("id = ?", otp.ID).First(&m).Error; err != nil {
		return 0, err
	}
	otp.Attempts = m.Attempts
	return m.Attempts, nil
}

// Consume marks the code used. The is_used guard means exactly one caller
// wins per code, whatever the interleaving.
func (r *OTPRepository) Consume(ctx context.Context, otp *entities.OTP) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.OTP{}).
		Where("id = ? AND is_used = ?", otp.ID, false).
		Update("is_used", true)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		otp.IsUsed = true
		return true, nil
	}
	return false, nil
}

// Transaction runs fn against a repository bound to one database transaction.
func (r *OTPRepository) Transaction(ctx context.Context, fn func(txRepo repositories.OTPRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&OTPRepository{db: tx})
	})
}

// DeleteExpiredBefore removes consumed and expired rows older than cutoff.
func (r *OTPRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", cutoff).
		Delete(&models.OTP{})
	return result.RowsAffected, result.Error
}

func (r *OTPRepository) toEntity(m *models.OTP) *entities.OTP {
	return &entities.OTP{
		ID:        m.ID,
		Email:     m.Email,
		Code:      m.Code,
		Attempts:  m.Attempts,
		IsUsed:    m.IsUsed,
		CreatedAt: m.CreatedAt,
		ExpiresAt: m.ExpiresAt,
	}
}
