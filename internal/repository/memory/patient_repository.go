package memory

import (
	"context"
	"sort"
	"time"

	"session-insight-be/internal/entity"
	"session-insight-be/internal/pkg/apperror"
	"session-insight-be/internal/repository/contract"
	"session-insight-be/pkg/lifecycle"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// PatientRepository is the in-process patient store used when no database
// is configured. Entries never expire inside go-cache: reads hide records
// past ExpiresAt and PurgeExpired is the only path that removes them, so
// every purge is counted.
type PatientRepository struct {
	cache *cache.Cache
	clock lifecycle.Clock
	locks keyedLocks
}

func NewPatientRepository(clock lifecycle.Clock) *PatientRepository {
	if clock == nil {
		clock = lifecycle.SystemClock{}
	}
	return &PatientRepository{
		cache: cache.New(cache.NoExpiration, 0),
		clock: clock,
	}
}

var _ contract.PatientRepository = (*PatientRepository)(nil)

func (r *PatientRepository) live(id uuid.UUID, ownerId uuid.UUID, now time.Time) (*entity.PatientRecord, bool) {
	x, found := r.cache.Get(id.String())
	if !found {
		return nil, false
	}
	p := x.(*entity.PatientRecord)
	if lifecycle.Expired(p.ExpiresAt, now) {
		return nil, false
	}
	if p.CreatedBy != ownerId {
		return nil, false
	}
	return p, true
}

func (r *PatientRepository) store(p *entity.PatientRecord) {
	r.cache.Set(p.Id.String(), p, cache.NoExpiration)
}

func (r *PatientRepository) Create(_ context.Context, patient *entity.PatientRecord) error {
	if patient.Id == uuid.Nil {
		patient.Id = uuid.New()
	}
	unlock := r.locks.lock(patient.Id.String())
	defer unlock()

	if _, found := r.cache.Get(patient.Id.String()); found {
		return apperror.Conflict("patient id already in use")
	}

	now := r.clock.Now()
	stored := patient.Clone()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	r.store(stored)

	*patient = *stored.Clone()
	return nil
}

func (r *PatientRepository) FindOne(_ context.Context, id, ownerId uuid.UUID) (*entity.PatientRecord, error) {
	p, ok := r.live(id, ownerId, r.clock.Now())
	if !ok {
		return nil, apperror.NotFound("patient")
	}
	return p.Clone(), nil
}

func (r *PatientRepository) FindAllByOwner(_ context.Context, ownerId uuid.UUID) ([]*entity.PatientRecord, error) {
	now := r.clock.Now()
	result := make([]*entity.PatientRecord, 0)
	for _, item := range r.cache.Items() {
		p := item.Object.(*entity.PatientRecord)
		if p.CreatedBy != ownerId || lifecycle.Expired(p.ExpiresAt, now) {
			continue
		}
		result = append(result, p.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *PatientRepository) Update(_ context.Context, id, ownerId uuid.UUID, mutate contract.PatientMutator) (*entity.PatientRecord, error) {
	unlock := r.locks.lock(id.String())
	defer unlock()

	now := r.clock.Now()
	current, ok := r.live(id, ownerId, now)
	if !ok {
		return nil, apperror.NotFound("patient")
	}

	next := current.Clone()
	if mutate != nil {
		if err := mutate(next); err != nil {
			return nil, err
		}
	}
	next.Id = current.Id
	next.CreatedBy = current.CreatedBy
	next.CreatedAt = current.CreatedAt
	next.ExpiresAt = current.ExpiresAt
	next.UpdatedAt = now
	r.store(next)

	return next.Clone(), nil
}

func (r *PatientRepository) Delete(_ context.Context, id, ownerId uuid.UUID) error {
	unlock := r.locks.lock(id.String())
	defer unlock()

	if _, ok := r.live(id, ownerId, r.clock.Now()); !ok {
		return apperror.NotFound("patient")
	}
	r.cache.Delete(id.String())
	return nil
}

func (r *PatientRepository) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	var purged int64
	for key, item := range r.cache.Items() {
		p := item.Object.(*entity.PatientRecord)
		if !lifecycle.Expired(p.ExpiresAt, now) {
			continue
		}
		unlock := r.locks.lock(key)
		if x, found := r.cache.Get(key); found && lifecycle.Expired(x.(*entity.PatientRecord).ExpiresAt, now) {
			r.cache.Delete(key)
			purged++
		}
		unlock()
	}
	return purged, nil
}

// Len reports the number of entries physically held, expired or not.
func (r *PatientRepository) Len() int {
	return r.cache.ItemCount()
}
