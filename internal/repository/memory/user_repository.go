package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"session-insight-be/internal/entity"
	"session-insight-be/internal/pkg/apperror"
	"session-insight-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// UserRepository keeps accounts in process memory for local development
// without Postgres. Accounts never expire.
type UserRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewUserRepository() *UserRepository {
	return &UserRepository{cache: cache.New(cache.NoExpiration, 0)}
}

var _ contract.UserRepository = (*UserRepository)(nil)

func emailKey(email string) string {
	return "email:" + strings.ToLower(strings.TrimSpace(email))
}

func (r *UserRepository) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found := r.cache.Get(emailKey(user.Email)); found {
		return apperror.Conflict("email already registered")
	}
	if user.Id == uuid.Nil {
		user.Id = uuid.New()
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	stored := *user
	r.cache.Set(emailKey(user.Email), user.Id, cache.NoExpiration)
	r.cache.Set(user.Id.String(), &stored, cache.NoExpiration)
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	x, found := r.cache.Get(emailKey(email))
	if !found {
		return nil, nil
	}
	return r.FindById(ctx, x.(uuid.UUID))
}

func (r *UserRepository) FindById(_ context.Context, id uuid.UUID) (*entity.User, error) {
	x, found := r.cache.Get(id.String())
	if !found {
		return nil, nil
	}
	u := *x.(*entity.User)
	return &u, nil
}
