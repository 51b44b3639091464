package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"session-insight-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePurger struct {
	mu    sync.Mutex
	calls []time.Time
	n     int64
	err   error
}

func (f *fakePurger) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, now)
	return f.n, f.err
}

func (f *fakePurger) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestSweeper_SweepOnceUsesClockAndNotifies(t *testing.T) {
	clock := NewManualClock(t0)
	purger := &fakePurger{n: 3}

	var gotCollection string
	var gotPurged int64
	s := NewSweeper("patients", purger, time.Minute, clock, logger.NewNopLogger(),
		func(_ context.Context, collection string, purged int64) {
			gotCollection = collection
			gotPurged = purged
		})

	n, err := s.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, []time.Time{t0}, purger.calls)
	assert.Equal(t, "patients", gotCollection)
	assert.Equal(t, int64(3), gotPurged)
}

func TestSweeper_NoNotificationWhenNothingPurged(t *testing.T) {
	called := false
	s := NewSweeper("patients", &fakePurger{}, time.Minute, nil, logger.NewNopLogger(),
		func(context.Context, string, int64) { called = true })

	_, err := s.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.False(t, called)
}

func TestSweeper_ErrorIsReturned(t *testing.T) {
	s := NewSweeper("patients", &fakePurger{err: errors.New("db down")}, time.Minute, nil, logger.NewNopLogger())

	_, err := s.SweepOnce(context.Background())
	assert.Error(t, err)
}

func TestSweeper_RunStopsOnCancel(t *testing.T) {
	purger := &fakePurger{}
	s := NewSweeper("patients", purger, 5*time.Millisecond, nil, logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	assert.Eventually(t, func() bool { return purger.callCount() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestSweeper_RunDisabledWithZeroInterval(t *testing.T) {
	s := NewSweeper("patients", &fakePurger{}, 0, nil, logger.NewNopLogger())
	assert.NoError(t, s.Run(context.Background()))
}
