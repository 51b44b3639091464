package bootstrap

import (
	"context"
	"testing"
	"time"

	"session-insight-be/internal/config"
	"session-insight-be/internal/entity"
	"session-insight-be/internal/pkg/logger"
	"session-insight-be/pkg/lifecycle"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Environment:  "test",
			SessionStore: config.SessionStoreMemory,
		},
		Analysis: config.AnalysisConfig{ServiceURL: "http://127.0.0.1:1", Timeout: time.Second},
		Auth:     config.AuthConfig{JWTSecret: "test-secret", JWTTTL: time.Hour},
		Retention: config.RetentionConfig{
			SessionWindow:       time.Hour,
			SessionHistoryLimit: 50,
			PatientRetention:    30 * 24 * time.Hour,
			SweepInterval:       time.Minute,
		},
		Keys: config.Keys{EventTopic: "RETENTION_EVENTS"},
	}
}

func TestNewContainer_MemoryDefaults(t *testing.T) {
	c, err := NewContainer(nil, baseConfig(), WithLogger(logger.NewNopLogger()))
	require.NoError(t, err)
	defer c.Close()

	assert.NotNil(t, c.SessionController)
	assert.NotNil(t, c.PatientController)
	assert.NotNil(t, c.AuthController)
	assert.NotNil(t, c.HealthController)
	assert.NotNil(t, c.ConsumerService)
	assert.Len(t, c.Sweepers, 1)
}

func TestNewContainer_RejectsEmptySecret(t *testing.T) {
	cfg := baseConfig()
	cfg.Auth.JWTSecret = ""

	_, err := NewContainer(nil, cfg, WithLogger(logger.NewNopLogger()))
	assert.Error(t, err)
}

func TestNewContainer_RedisSessionStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	cfg := baseConfig()
	cfg.App.SessionStore = config.SessionStoreRedis

	clock := lifecycle.NewManualClock(time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC))
	c, err := NewContainer(nil, cfg,
		WithLogger(logger.NewNopLogger()),
		WithClock(clock),
		WithRedisClient(rdb),
	)
	require.NoError(t, err)
	defer c.Close()

	repo, backend, err := c.sessionRepository(cfg, options{clock: clock, rdb: rdb})
	require.NoError(t, err)
	assert.Equal(t, backendRedis, backend)

	require.NoError(t, repo.Create(context.Background(), &entity.AnonymousSession{Id: "session_a"}))
	assert.True(t, mr.Exists("session:session_a"))
}

func TestNewContainer_UnreachableRedisFails(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := baseConfig()
	cfg.App.SessionStore = config.SessionStoreRedis
	cfg.App.RedisURL = "redis://" + addr

	_, err := NewContainer(nil, cfg, WithLogger(logger.NewNopLogger()))
	assert.Error(t, err)
}
