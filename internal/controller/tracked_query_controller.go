package controller

import (
	"news-agent-be/internal/dto"
	"news-agent-be/internal/pkg/serverutils"
	"news-agent-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITrackedQueryController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Get(ctx *fiber.Ctx) error
	SetActive(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	GetUpdates(ctx *fiber.Ctx) error
	Refresh(ctx *fiber.Ctx) error
	RefreshAll(ctx *fiber.Ctx) error
}

type trackedQueryController struct {
	trackedService   service.ITrackedQueryService
	publisherService service.IPublisherService
}

func NewTrackedQueryController(trackedService service.ITrackedQueryService, publisherService service.IPublisherService) ITrackedQueryController {
	return &trackedQueryController{
		trackedService:   trackedService,
		publisherService: publisherService,
	}
}

func (c *trackedQueryController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/tracked/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Post("refresh-all", c.RefreshAll)
	h.Get(":id/updates", c.GetUpdates)
	h.Post(":id/refresh", c.Refresh)
	h.Get(":id", c.Get)
	h.Patch(":id", c.SetActive)
	h.Delete(":id", c.Delete)
}

func (c *trackedQueryController) Create(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	var req dto.CreateTrackedQueryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.trackedService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create tracked query", res))
}

func (c *trackedQueryController) List(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	res, err := c.trackedService.List(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get tracked queries", res))
}

func (c *trackedQueryController) Get(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid tracked query id")
	}

	res, err := c.trackedService.Get(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get tracked query", res))
}

func (c *trackedQueryController) SetActive(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid tracked query id")
	}

	var req dto.UpdateTrackedQueryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.trackedService.SetActive(ctx.Context(), userId, id, *req.IsActive); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success update tracked query", nil))
}

func (c *trackedQueryController) Delete(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid tracked query id")
	}

	if err := c.trackedService.Delete(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete tracked query", nil))
}

func (c *trackedQueryController) GetUpdates(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid tracked query id")
	}

	res, err := c.trackedService.GetUpdates(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get tracked query updates", res))
}

func (c *trackedQueryController) Refresh(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid tracked query id")
	}

	res, err := c.trackedService.Refresh(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success refresh tracked query", res))
}

// RefreshAll queues background refreshes instead of running them inline; the
// client gets back how many were queued.
func (c *trackedQueryController) RefreshAll(ctx *fiber.Ctx) error {
	queued, err := c.publisherService.EnqueueRefreshForUser(ctx.Context(), currentUserId(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success queue refreshes", fiber.Map{"queued": queued}))
}
