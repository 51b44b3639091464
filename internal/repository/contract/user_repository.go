package contract

import (
	"context"

	"session-insight-be/internal/entity"

	"github.com/google/uuid"
)

type UserRepository interface {
	// Create fails with apperror.ErrConflict when the email is taken.
	Create(ctx context.Context, user *entity.User) error
	// FindByEmail returns nil, nil when no user matches.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindById(ctx context.Context, id uuid.UUID) (*entity.User, error)
}
