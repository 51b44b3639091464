package controller

import (
	"session-insight-be/internal/dto"
	"session-insight-be/internal/pkg/apperror"
	"session-insight-be/internal/pkg/serverutils"
	"session-insight-be/internal/service"
	"session-insight-be/pkg/access"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	GetOrCreate(ctx *fiber.Ctx) error
	Analyze(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type sessionController struct {
	service service.ISessionService
	gate    access.Gate
}

func NewSessionController(service service.ISessionService, gate access.Gate) ISessionController {
	return &sessionController{service: service, gate: gate}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	admit := serverutils.SessionMiddleware(c.gate)

	h := r.Group("/sessions")
	h.Post("", c.GetOrCreate)
	h.Post("/:sessionId/analyze", admit, c.Analyze)
	h.Get("/:sessionId/history", admit, c.History)
	h.Delete("/:sessionId", admit, c.Delete)
}

func (c *sessionController) GetOrCreate(ctx *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return apperror.InvalidInput("invalid request body")
		}
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.GetOrCreate(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Session ready", res))
}

func (c *sessionController) Analyze(ctx *fiber.Ctx) error {
	var req dto.AnalyzeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidInput("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Analyze(ctx.UserContext(), serverutils.SessionId(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Analysis recorded", res))
}

func (c *sessionController) History(ctx *fiber.Ctx) error {
	res, err := c.service.History(ctx.UserContext(), serverutils.SessionId(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get session history", res))
}

func (c *sessionController) Delete(ctx *fiber.Ctx) error {
	if err := c.service.Delete(ctx.UserContext(), serverutils.SessionId(ctx)); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Session cleared", nil))
}
