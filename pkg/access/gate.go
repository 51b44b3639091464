// Package access admits callers either by possession of an anonymous
// session id or by a verified account credential. It is stateless: each
// call is judged on its own.
package access

import (
	"strings"

	"session-insight-be/internal/pkg/apperror"

	"github.com/google/uuid"
)

type Mode string

const (
	ModeSession Mode = "session"
	ModeAccount Mode = "account"
)

// Principal is the admitted caller.
type Principal struct {
	Mode      Mode
	SessionId string
	AccountId uuid.UUID
}

// Gate decides whether a presented credential is admitted.
type Gate interface {
	Admit(credential string) (Principal, error)
}

// TokenVerifier resolves a credential token to the account it is bound to.
type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

// SessionGate admits anyone holding a non-empty session id.
type SessionGate struct{}

func (SessionGate) Admit(sessionId string) (Principal, error) {
	sessionId = strings.TrimSpace(sessionId)
	if sessionId == "" {
		return Principal{}, apperror.InvalidInput("session id is required")
	}
	return Principal{Mode: ModeSession, SessionId: sessionId}, nil
}

// AccountGate admits callers whose token the verifier accepts.
type AccountGate struct {
	verifier TokenVerifier
}

func NewAccountGate(verifier TokenVerifier) *AccountGate {
	return &AccountGate{verifier: verifier}
}

func (g *AccountGate) Admit(token string) (Principal, error) {
	if strings.TrimSpace(token) == "" {
		return Principal{}, apperror.Unauthorized("missing token")
	}
	accountId, err := g.verifier.Verify(token)
	if err != nil {
		return Principal{}, err
	}
	return Principal{Mode: ModeAccount, AccountId: accountId}, nil
}
