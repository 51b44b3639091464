package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"session-insight-be/internal/entity"
	"session-insight-be/internal/pkg/apperror"
	"session-insight-be/pkg/lifecycle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

func newSessionRepo() (*SessionRepository, *lifecycle.ManualClock) {
	clock := lifecycle.NewManualClock(epoch)
	return NewSessionRepository(time.Hour, 0, clock), clock
}

func TestSessionRepository_CreateAndConflict(t *testing.T) {
	repo, _ := newSessionRepo()
	ctx := context.Background()

	s := &entity.AnonymousSession{Id: "session_a"}
	require.NoError(t, repo.Create(ctx, s))
	assert.Equal(t, epoch, s.CreatedAt)
	assert.Equal(t, epoch, s.LastAccessed)

	err := repo.Create(ctx, &entity.AnonymousSession{Id: "session_a"})
	assert.True(t, errors.Is(err, apperror.ErrConflict))
}

func TestSessionRepository_UpdateRefreshesLastAccessed(t *testing.T) {
	repo, clock := newSessionRepo()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &entity.AnonymousSession{Id: "s"}))

	clock.Advance(50 * time.Minute)
	got, err := repo.Update(ctx, "s", nil)
	require.NoError(t, err)
	assert.Equal(t, epoch.Add(50*time.Minute), got.LastAccessed)

	// 50 + 50 minutes after creation is still alive because the window slid.
	clock.Advance(50 * time.Minute)
	_, err = repo.Update(ctx, "s", nil)
	assert.NoError(t, err)
}

func TestSessionRepository_ExpiredEntryIsNotFoundWhileStillHeld(t *testing.T) {
	repo, clock := newSessionRepo()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &entity.AnonymousSession{Id: "s"}))

	clock.Advance(time.Hour)
	// go-cache runs on wall time, so the raw entry is still there.
	assert.Equal(t, 1, repo.Len())

	_, err := repo.Update(ctx, "s", nil)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestSessionRepository_RecreateAfterExpiryStartsEmpty(t *testing.T) {
	repo, clock := newSessionRepo()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &entity.AnonymousSession{Id: "s"}))
	_, err := repo.Update(ctx, "s", func(s *entity.AnonymousSession) error {
		s.Analyses = append(s.Analyses, entity.AnalysisResult{Text: "old note"})
		return nil
	})
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	require.NoError(t, repo.Create(ctx, &entity.AnonymousSession{Id: "s"}))

	got, err := repo.Update(ctx, "s", nil)
	require.NoError(t, err)
	assert.Empty(t, got.Analyses)
}

func TestSessionRepository_MutatorErrorLeavesRecordUntouched(t *testing.T) {
	repo, clock := newSessionRepo()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &entity.AnonymousSession{Id: "s"}))

	clock.Advance(10 * time.Minute)
	_, err := repo.Update(ctx, "s", func(s *entity.AnonymousSession) error {
		s.Analyses = append(s.Analyses, entity.AnalysisResult{Text: "partial"})
		return errors.New("abort")
	})
	require.Error(t, err)

	got, err := repo.Update(ctx, "s", nil)
	require.NoError(t, err)
	assert.Empty(t, got.Analyses)
}

func TestSessionRepository_ReturnedCopiesAreDetached(t *testing.T) {
	repo, _ := newSessionRepo()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &entity.AnonymousSession{Id: "s"}))

	got, err := repo.Update(ctx, "s", func(s *entity.AnonymousSession) error {
		s.Analyses = []entity.AnalysisResult{{Text: "first"}}
		return nil
	})
	require.NoError(t, err)
	got.Analyses[0].Text = "tampered"

	again, err := repo.Update(ctx, "s", nil)
	require.NoError(t, err)
	assert.Equal(t, "first", again.Analyses[0].Text)
}

func TestSessionRepository_DeleteIsIdempotent(t *testing.T) {
	repo, _ := newSessionRepo()
	ctx := context.Background()

	assert.NoError(t, repo.Delete(ctx, "never-existed"))

	require.NoError(t, repo.Create(ctx, &entity.AnonymousSession{Id: "s"}))
	assert.NoError(t, repo.Delete(ctx, "s"))
	assert.NoError(t, repo.Delete(ctx, "s"))

	_, err := repo.Update(ctx, "s", nil)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestSessionRepository_ConcurrentAppendsKeepEveryWriteAndTheCap(t *testing.T) {
	repo, _ := newSessionRepo()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &entity.AnonymousSession{Id: "s"}))

	const writers = 80
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Update(ctx, "s", func(s *entity.AnonymousSession) error {
				s.Analyses = lifecycle.Prepend(s.Analyses, entity.AnalysisResult{Text: fmt.Sprint(i)}, lifecycle.DefaultSessionHistoryLimit)
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := repo.Update(ctx, "s", nil)
	require.NoError(t, err)
	assert.Len(t, got.Analyses, lifecycle.DefaultSessionHistoryLimit)

	seen := map[string]bool{}
	for _, a := range got.Analyses {
		assert.False(t, seen[a.Text], "duplicate entry %s", a.Text)
		seen[a.Text] = true
	}
}

func TestSessionRepository_ConcurrentCreateHasOneWinner(t *testing.T) {
	repo, _ := newSessionRepo()
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.Create(ctx, &entity.AnonymousSession{Id: "same"}); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}
