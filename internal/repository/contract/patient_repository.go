package contract

import (
	"context"
	"time"

	"session-insight-be/internal/entity"

	"github.com/google/uuid"
)

type PatientMutator func(patient *entity.PatientRecord) error

// PatientRepository stores patient records on a fixed horizon. Every
// lookup is scoped to the owner; records of other owners and expired
// records surface as apperror.ErrNotFound.
type PatientRepository interface {
	Create(ctx context.Context, patient *entity.PatientRecord) error
	FindOne(ctx context.Context, id, ownerId uuid.UUID) (*entity.PatientRecord, error)
	FindAllByOwner(ctx context.Context, ownerId uuid.UUID) ([]*entity.PatientRecord, error)

	// Update applies mutate atomically. ExpiresAt, CreatedBy and CreatedAt
	// are never written back.
	Update(ctx context.Context, id, ownerId uuid.UUID, mutate PatientMutator) (*entity.PatientRecord, error)

	Delete(ctx context.Context, id, ownerId uuid.UUID) error

	// PurgeExpired physically removes records with ExpiresAt <= now.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
