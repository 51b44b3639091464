package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"session-insight-be/internal/entity"
	"session-insight-be/internal/mapper"
	"session-insight-be/internal/model"
	"session-insight-be/internal/pkg/apperror"
	"session-insight-be/internal/repository/contract"
	"session-insight-be/pkg/lifecycle"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix         = "session:"
	defaultMaxRetries = 16
)

// SessionRepository stores anonymous sessions in Redis so several API
// instances share them. Every write resets the key TTL to the inactivity
// window; optimistic WATCH transactions keep concurrent appends from
// overwriting each other.
type SessionRepository struct {
	rdb        *redis.Client
	policy     lifecycle.Policy
	window     time.Duration
	clock      lifecycle.Clock
	mapper     *mapper.SessionMapper
	maxRetries int
}

func NewSessionRepository(rdb *redis.Client, window time.Duration, clock lifecycle.Clock) *SessionRepository {
	if window <= 0 {
		window = lifecycle.DefaultSessionWindow
	}
	if clock == nil {
		clock = lifecycle.SystemClock{}
	}
	return &SessionRepository{
		rdb:        rdb,
		policy:     lifecycle.SlidingWindow{Window: window},
		window:     window,
		clock:      clock,
		mapper:     mapper.NewSessionMapper(),
		maxRetries: defaultMaxRetries,
	}
}

var _ contract.SessionRepository = (*SessionRepository)(nil)

func sessionKey(id string) string {
	return keyPrefix + id
}

// load reads a live session through c. It returns nil, nil when the key is
// missing or the session is past its deadline.
func (r *SessionRepository) load(ctx context.Context, c redis.Cmdable, key string, now time.Time) (*entity.AnonymousSession, error) {
	raw, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	var m model.Session
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	s := r.mapper.ToEntity(&m)
	if lifecycle.Expired(r.policy.Deadline(s.CreatedAt, s.LastAccessed), now) {
		return nil, nil
	}
	return s, nil
}

func (r *SessionRepository) encode(s *entity.AnonymousSession) ([]byte, error) {
	return json.Marshal(r.mapper.ToModel(s))
}

// transact runs fn under WATCH on key, retrying when another client
// commits first.
func (r *SessionRepository) transact(ctx context.Context, key string, fn func(tx *redis.Tx) error) error {
	for attempt := 0; attempt < r.maxRetries; attempt++ {
		err := r.rdb.Watch(ctx, fn, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("redis %s: gave up after %d conflicting writes", key, r.maxRetries)
}

func (r *SessionRepository) Create(ctx context.Context, session *entity.AnonymousSession) error {
	key := sessionKey(session.Id)
	var stored *entity.AnonymousSession

	err := r.transact(ctx, key, func(tx *redis.Tx) error {
		now := r.clock.Now()
		existing, err := r.load(ctx, tx, key, now)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperror.Conflict("session id already in use")
		}

		next := session.Clone()
		if next.CreatedAt.IsZero() {
			next.CreatedAt = now
		}
		next.LastAccessed = now
		data, err := r.encode(next)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.window)
			return nil
		})
		if err != nil {
			return err
		}
		stored = next
		return nil
	})
	if err != nil {
		return err
	}

	*session = *stored
	return nil
}

func (r *SessionRepository) Update(ctx context.Context, id string, mutate contract.SessionMutator) (*entity.AnonymousSession, error) {
	key := sessionKey(id)
	var result *entity.AnonymousSession

	err := r.transact(ctx, key, func(tx *redis.Tx) error {
		now := r.clock.Now()
		current, err := r.load(ctx, tx, key, now)
		if err != nil {
			return err
		}
		if current == nil {
			return apperror.NotFound("session")
		}

		next := current.Clone()
		if mutate != nil {
			if err := mutate(next); err != nil {
				return err
			}
		}
		next.Id = current.Id
		next.CreatedAt = current.CreatedAt
		next.LastAccessed = now

		data, err := r.encode(next)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.window)
			return nil
		})
		if err != nil {
			return err
		}
		result = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
