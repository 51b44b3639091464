package access

import (
	"errors"
	"time"

	"session-insight-be/internal/pkg/apperror"
	"session-insight-be/pkg/lifecycle"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type accountClaims struct {
	UserId string `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTManager issues and verifies HS256 account tokens.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	clock  lifecycle.Clock
}

func NewJWTManager(secret string, ttl time.Duration, clock lifecycle.Clock) (*JWTManager, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if clock == nil {
		clock = lifecycle.SystemClock{}
	}
	return &JWTManager{secret: []byte(secret), ttl: ttl, clock: clock}, nil
}

func (m *JWTManager) Issue(accountId uuid.UUID) (string, time.Time, error) {
	now := m.clock.Now()
	expiresAt := now.Add(m.ttl)

	claims := accountClaims{
		UserId: accountId.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountId.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (m *JWTManager) Verify(tokenStr string) (uuid.UUID, error) {
	var claims accountClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims,
		func(t *jwt.Token) (interface{}, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.clock.Now),
	)
	if err != nil || !token.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, apperror.Unauthorized("token expired")
		}
		return uuid.Nil, apperror.Unauthorized("invalid token")
	}

	accountId, err := uuid.Parse(claims.UserId)
	if err != nil {
		return uuid.Nil, apperror.Unauthorized("invalid claims")
	}
	return accountId, nil
}
