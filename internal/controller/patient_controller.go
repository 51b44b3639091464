package controller

import (
	"session-insight-be/internal/dto"
	"session-insight-be/internal/pkg/apperror"
	"session-insight-be/internal/pkg/serverutils"
	"session-insight-be/internal/service"
	"session-insight-be/pkg/access"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPatientController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Analyze(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type patientController struct {
	service service.IPatientService
	gate    access.Gate
}

func NewPatientController(service service.IPatientService, gate access.Gate) IPatientController {
	return &patientController{service: service, gate: gate}
}

func (c *patientController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/patients")
	h.Use(serverutils.JwtMiddleware(c.gate))
	h.Get("", c.GetAll)
	h.Post("", c.Create)
	h.Post("/:id/analyze", c.Analyze)
	h.Delete("/:id", c.Delete)
}

// patientId treats a malformed id like any other unknown record.
func patientId(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, apperror.NotFound("patient")
	}
	return id, nil
}

func (c *patientController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.service.GetAll(ctx.UserContext(), serverutils.UserId(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all patients", res))
}

func (c *patientController) Create(ctx *fiber.Ctx) error {
	var req dto.CreatePatientRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidInput("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), serverutils.UserId(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Success create patient", res))
}

func (c *patientController) Analyze(ctx *fiber.Ctx) error {
	id, err := patientId(ctx)
	if err != nil {
		return err
	}

	var req dto.AnalyzeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidInput("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Analyze(ctx.UserContext(), serverutils.UserId(ctx), id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Analysis recorded", res))
}

func (c *patientController) Delete(ctx *fiber.Ctx) error {
	id, err := patientId(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), serverutils.UserId(ctx), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Patient deleted", nil))
}
