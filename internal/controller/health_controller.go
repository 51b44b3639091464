package controller

import (
	"session-insight-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

type HealthStatus struct {
	Status       string `json:"status"`
	SessionStore string `json:"sessionStore"`
	PatientStore string `json:"patientStore"`
}

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	status HealthStatus
}

func NewHealthController(sessionStore, patientStore string) IHealthController {
	return &healthController{status: HealthStatus{
		Status:       "ok",
		SessionStore: sessionStore,
		PatientStore: patientStore,
	}}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("OK", c.status))
}
