package repositories

import (
	"context"

	"github.com/google/uuid"

	"events-hub.backend/internal/domain/entities"
)

// UserRepository defines user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	// MarkEmailVerified flips email_verified to true. It only updates rows
	// where the flag is still false and reports whether a row changed.
	MarkEmailVerified(ctx context.Context, email string) (bool, error)
}
