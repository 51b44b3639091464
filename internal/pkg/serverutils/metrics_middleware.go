package serverutils

import (
	"errors"
	"time"

	"session-insight-be/internal/pkg/apperror"
	"session-insight-be/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

// MetricsMiddleware records every request under its route template so ids
// never become label values.
func MetricsMiddleware(m metrics.Provider) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		status := ctx.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = apperror.StatusCode(err)
			}
		}
		m.ObserveRequest(ctx.Route().Path, status, time.Since(start))
		return err
	}
}
