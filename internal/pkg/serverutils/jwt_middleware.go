package serverutils

import (
	"strings"

	"session-insight-be/pkg/access"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	localUserId    = "user_id"
	localSessionId = "session_id"
)

// JwtMiddleware admits requests through the account gate and stores the
// account id under "user_id".
func JwtMiddleware(gate access.Gate) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		token := ""
		if authHeader := ctx.Get(fiber.HeaderAuthorization); strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(authHeader[7:])
		}

		principal, err := gate.Admit(token)
		if err != nil {
			return err
		}

		ctx.Locals(localUserId, principal.AccountId)
		return ctx.Next()
	}
}

// SessionMiddleware admits requests carrying a :sessionId route param.
func SessionMiddleware(gate access.Gate) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		principal, err := gate.Admit(ctx.Params("sessionId"))
		if err != nil {
			return err
		}

		ctx.Locals(localSessionId, principal.SessionId)
		return ctx.Next()
	}
}

func UserId(ctx *fiber.Ctx) uuid.UUID {
	id, _ := ctx.Locals(localUserId).(uuid.UUID)
	return id
}

func SessionId(ctx *fiber.Ctx) string {
	id, _ := ctx.Locals(localSessionId).(string)
	return id
}
