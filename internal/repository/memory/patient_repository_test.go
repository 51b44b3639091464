package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"session-insight-be/internal/entity"
	"session-insight-be/internal/pkg/apperror"
	"session-insight-be/pkg/lifecycle"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPatientRepo() (*PatientRepository, *lifecycle.ManualClock) {
	clock := lifecycle.NewManualClock(epoch)
	return NewPatientRepository(clock), clock
}

func newPatient(owner uuid.UUID, name string, now time.Time) *entity.PatientRecord {
	return &entity.PatientRecord{
		Id:        uuid.New(),
		Name:      name,
		CreatedBy: owner,
		CreatedAt: now,
		ExpiresAt: now.Add(lifecycle.DefaultPatientHorizon),
	}
}

func TestPatientRepository_OwnerScoping(t *testing.T) {
	repo, _ := newPatientRepo()
	ctx := context.Background()
	ownerA, ownerB := uuid.New(), uuid.New()

	p := newPatient(ownerA, "Jane", epoch)
	require.NoError(t, repo.Create(ctx, p))

	_, err := repo.FindOne(ctx, p.Id, ownerA)
	require.NoError(t, err)

	_, err = repo.FindOne(ctx, p.Id, ownerB)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	_, err = repo.Update(ctx, p.Id, ownerB, nil)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	err = repo.Delete(ctx, p.Id, ownerB)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	list, err := repo.FindAllByOwner(ctx, ownerB)
	require.NoError(t, err)
	assert.Empty(t, list)

	// Still intact for the real owner.
	_, err = repo.FindOne(ctx, p.Id, ownerA)
	assert.NoError(t, err)
}

func TestPatientRepository_ListNewestFirst(t *testing.T) {
	repo, clock := newPatientRepo()
	ctx := context.Background()
	owner := uuid.New()

	first := newPatient(owner, "First", clock.Now())
	require.NoError(t, repo.Create(ctx, first))
	clock.Advance(time.Minute)
	second := newPatient(owner, "Second", clock.Now())
	require.NoError(t, repo.Create(ctx, second))

	list, err := repo.FindAllByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Second", list[0].Name)
	assert.Equal(t, "First", list[1].Name)
}

func TestPatientRepository_UpdateKeepsExpiresAt(t *testing.T) {
	repo, clock := newPatientRepo()
	ctx := context.Background()
	owner := uuid.New()
	p := newPatient(owner, "Jane", epoch)
	require.NoError(t, repo.Create(ctx, p))

	clock.Advance(10 * 24 * time.Hour)
	got, err := repo.Update(ctx, p.Id, owner, func(rec *entity.PatientRecord) error {
		rec.ExpiresAt = clock.Now().Add(lifecycle.DefaultPatientHorizon)
		rec.CreatedBy = uuid.New()
		rec.History = append(rec.History, entity.AnalysisResult{Text: "note"})
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, epoch.Add(lifecycle.DefaultPatientHorizon), got.ExpiresAt)
	assert.Equal(t, owner, got.CreatedBy)
	assert.Equal(t, clock.Now(), got.UpdatedAt)
	assert.Len(t, got.History, 1)
}

func TestPatientRepository_ExpiredIsUnreachable(t *testing.T) {
	repo, clock := newPatientRepo()
	ctx := context.Background()
	owner := uuid.New()
	p := newPatient(owner, "Jane", epoch)
	require.NoError(t, repo.Create(ctx, p))

	clock.Set(p.ExpiresAt)

	_, err := repo.FindOne(ctx, p.Id, owner)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	_, err = repo.Update(ctx, p.Id, owner, nil)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	assert.True(t, errors.Is(repo.Delete(ctx, p.Id, owner), apperror.ErrNotFound))

	list, err := repo.FindAllByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPatientRepository_PurgeExpired(t *testing.T) {
	repo, clock := newPatientRepo()
	ctx := context.Background()
	owner := uuid.New()

	old := newPatient(owner, "Old", epoch)
	require.NoError(t, repo.Create(ctx, old))
	clock.Advance(20 * 24 * time.Hour)
	fresh := newPatient(owner, "Fresh", clock.Now())
	require.NoError(t, repo.Create(ctx, fresh))

	clock.Set(old.ExpiresAt.Add(time.Second))
	n, err := repo.PurgeExpired(ctx, clock.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 1, repo.Len())

	_, err = repo.FindOne(ctx, fresh.Id, owner)
	assert.NoError(t, err)
}

func TestPatientRepository_PurgeCountsRecordsExpiredOnWallClock(t *testing.T) {
	repo := NewPatientRepository(lifecycle.SystemClock{})
	ctx := context.Background()
	owner := uuid.New()

	now := time.Now()
	p := newPatient(owner, "Jane", now)
	p.ExpiresAt = now.Add(50 * time.Millisecond)
	require.NoError(t, repo.Create(ctx, p))

	time.Sleep(100 * time.Millisecond)

	n, err := repo.PurgeExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 0, repo.Len())
}

func TestPatientRepository_DeleteIsIrreversible(t *testing.T) {
	repo, _ := newPatientRepo()
	ctx := context.Background()
	owner := uuid.New()
	p := newPatient(owner, "Jane", epoch)
	require.NoError(t, repo.Create(ctx, p))

	require.NoError(t, repo.Delete(ctx, p.Id, owner))
	_, err := repo.FindOne(ctx, p.Id, owner)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	assert.True(t, errors.Is(repo.Delete(ctx, p.Id, owner), apperror.ErrNotFound))
}

func TestUserRepository_UniqueEmail(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	u := &entity.User{Email: "Doc@Example.com", PasswordHash: "h"}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotEqual(t, uuid.Nil, u.Id)

	err := repo.Create(ctx, &entity.User{Email: "doc@example.com", PasswordHash: "h"})
	assert.True(t, errors.Is(err, apperror.ErrConflict))

	found, err := repo.FindByEmail(ctx, "doc@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, u.Id, found.Id)

	missing, err := repo.FindByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
