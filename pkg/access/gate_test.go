package access

import (
	"errors"
	"testing"
	"time"

	"session-insight-be/internal/pkg/apperror"
	"session-insight-be/pkg/lifecycle"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

func newManager(t *testing.T, clock lifecycle.Clock) *JWTManager {
	t.Helper()
	m, err := NewJWTManager("test-secret", 7*24*time.Hour, clock)
	require.NoError(t, err)
	return m
}

func TestSessionGate(t *testing.T) {
	p, err := SessionGate{}.Admit("session_abc")
	require.NoError(t, err)
	assert.Equal(t, ModeSession, p.Mode)
	assert.Equal(t, "session_abc", p.SessionId)

	_, err = SessionGate{}.Admit("   ")
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput))
}

func TestAccountGate_AdmitsValidToken(t *testing.T) {
	m := newManager(t, lifecycle.NewManualClock(start))
	owner := uuid.New()

	token, expiresAt, err := m.Issue(owner)
	require.NoError(t, err)
	assert.Equal(t, start.Add(7*24*time.Hour), expiresAt)

	p, err := NewAccountGate(m).Admit(token)
	require.NoError(t, err)
	assert.Equal(t, ModeAccount, p.Mode)
	assert.Equal(t, owner, p.AccountId)
}

func TestAccountGate_Rejections(t *testing.T) {
	clock := lifecycle.NewManualClock(start)
	m := newManager(t, clock)
	gate := NewAccountGate(m)

	valid, _, err := m.Issue(uuid.New())
	require.NoError(t, err)

	other, err := NewJWTManager("other-secret", time.Hour, clock)
	require.NoError(t, err)
	forged, _, err := other.Issue(uuid.New())
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": uuid.NewString(),
		"exp":     start.Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": uuid.NewString(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "not-a-uuid",
		"exp":     start.Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"garbage", "abc.def.ghi"},
		{"wrong signature", forged},
		{"alg none", noneAlg},
		{"no expiry", noExp},
		{"bad subject", badSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gate.Admit(tt.token)
			assert.True(t, errors.Is(err, apperror.ErrUnauthorized), "got %v", err)
		})
	}

	t.Run("expired", func(t *testing.T) {
		clock.Advance(7*24*time.Hour + time.Second)
		_, err := gate.Admit(valid)
		assert.True(t, errors.Is(err, apperror.ErrUnauthorized))
	})
}

func TestNewJWTManager_RequiresSecret(t *testing.T) {
	_, err := NewJWTManager("", time.Hour, nil)
	assert.Error(t, err)
}
