package memory

import (
	"context"
	"time"

	"session-insight-be/internal/entity"
	"session-insight-be/internal/pkg/apperror"
	"session-insight-be/internal/repository/contract"
	"session-insight-be/pkg/lifecycle"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps anonymous sessions in process memory. go-cache
// drops idle entries on its janitor pass; reads additionally check the
// lifecycle deadline so an expired entry is never served in between.
type SessionRepository struct {
	cache  *cache.Cache
	policy lifecycle.Policy
	window time.Duration
	clock  lifecycle.Clock
	locks  keyedLocks
}

func NewSessionRepository(window, cleanupInterval time.Duration, clock lifecycle.Clock) *SessionRepository {
	if window <= 0 {
		window = lifecycle.DefaultSessionWindow
	}
	if clock == nil {
		clock = lifecycle.SystemClock{}
	}
	return &SessionRepository{
		cache:  cache.New(window, cleanupInterval),
		policy: lifecycle.SlidingWindow{Window: window},
		window: window,
		clock:  clock,
	}
}

var _ contract.SessionRepository = (*SessionRepository)(nil)

// live returns the stored session unless it is missing or expired.
// Callers must hold the key lock when they intend to write.
func (r *SessionRepository) live(id string, now time.Time) (*entity.AnonymousSession, bool) {
	x, found := r.cache.Get(id)
	if !found {
		return nil, false
	}
	s := x.(*entity.AnonymousSession)
	if lifecycle.Expired(r.policy.Deadline(s.CreatedAt, s.LastAccessed), now) {
		r.cache.Delete(id)
		return nil, false
	}
	return s, true
}

func (r *SessionRepository) store(s *entity.AnonymousSession) {
	r.cache.Set(s.Id, s, r.window)
}

func (r *SessionRepository) Create(_ context.Context, session *entity.AnonymousSession) error {
	unlock := r.locks.lock(session.Id)
	defer unlock()

	now := r.clock.Now()
	if _, ok := r.live(session.Id, now); ok {
		return apperror.Conflict("session id already in use")
	}

	stored := session.Clone()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.LastAccessed = now
	r.store(stored)

	*session = *stored.Clone()
	return nil
}

func (r *SessionRepository) Update(_ context.Context, id string, mutate contract.SessionMutator) (*entity.AnonymousSession, error) {
	unlock := r.locks.lock(id)
	defer unlock()

	now := r.clock.Now()
	current, ok := r.live(id, now)
	if !ok {
		return nil, apperror.NotFound("session")
	}

	next := current.Clone()
	if mutate != nil {
		if err := mutate(next); err != nil {
			return nil, err
		}
	}
	next.Id = current.Id
	next.CreatedAt = current.CreatedAt
	next.LastAccessed = now
	r.store(next)

	return next.Clone(), nil
}

func (r *SessionRepository) Delete(_ context.Context, id string) error {
	unlock := r.locks.lock(id)
	defer unlock()

	r.cache.Delete(id)
	return nil
}

// Len reports the number of entries physically held, expired or not.
func (r *SessionRepository) Len() int {
	return r.cache.ItemCount()
}
