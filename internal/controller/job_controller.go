package controller

import (
	"errors"
	"time"

	"klutr-be/internal/dto"
	"klutr-be/internal/pkg/serverutils"
	"klutr-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IJobController interface {
	RegisterRoutes(r fiber.Router, guard fiber.Handler)
	Trigger(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type jobController struct {
	batchService service.IBatchService
}

func NewJobController(batchService service.IBatchService) IJobController {
	return &jobController{
		batchService: batchService,
	}
}

func (c *jobController) RegisterRoutes(r fiber.Router, guard fiber.Handler) {
	r.Get("/health", c.Health)

	jobs := r.Group("/internal/jobs")
	jobs.Use(guard)
	jobs.Post(":kind", c.Trigger)
}

func (c *jobController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"status": "ok"})
}

// Trigger runs one batch job synchronously. The scheduler pinging this route
// gets the full report back in the response body.
func (c *jobController) Trigger(ctx *fiber.Ctx) error {
	jobKind := ctx.Params("kind")

	var req dto.TriggerJobRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Malformed request body")
		}
		if err := serverutils.ValidateRequest(req); err != nil {
			return err
		}
	}

	at := time.Now()
	if req.WeekStart != nil {
		at = *req.WeekStart
	}

	report, err := c.batchService.Run(ctx.Context(), jobKind, at)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownJobKind):
			return fiber.NewError(fiber.StatusNotFound, "Unknown job kind")
		case errors.Is(err, service.ErrRunInProgress):
			return fiber.NewError(fiber.StatusConflict, "Run already in progress")
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Job completed", dto.TriggerJobResponse{
		JobKind: jobKind,
		Report:  report,
	}))
}
