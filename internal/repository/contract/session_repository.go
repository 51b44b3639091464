package contract

import (
	"context"

	"session-insight-be/internal/entity"
)

// SessionMutator edits a session inside a single atomic transition.
type SessionMutator func(session *entity.AnonymousSession) error

// SessionRepository stores anonymous sessions on a sliding inactivity
// window. Expired sessions are indistinguishable from absent ones.
type SessionRepository interface {
	// Create stores a new session. Fails with apperror.ErrConflict when a
	// live session already holds the id.
	Create(ctx context.Context, session *entity.AnonymousSession) error

	// Update applies mutate atomically, refreshes LastAccessed and returns
	// the stored copy. Fails with apperror.ErrNotFound when absent or
	// expired. A nil mutate only refreshes LastAccessed.
	Update(ctx context.Context, id string, mutate SessionMutator) (*entity.AnonymousSession, error)

	// Delete removes a session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
}
