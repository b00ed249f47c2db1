package controller

import (
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/pkg/serverutils"
	"ai-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IProviderController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Upsert(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Models(ctx *fiber.Ctx) error
}

type providerController struct {
	service service.IProviderService
}

func NewProviderController(service service.IProviderService) IProviderController {
	return &providerController{service: service}
}

func (c *providerController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/provider", serverutils.JwtMiddleware)
	h.Get("/", c.List)
	h.Put("/", c.Upsert)
	h.Get("/models", c.Models)
	h.Delete("/:provider", c.Delete)
}

func (c *providerController) List(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return serverutils.ErrorResponse(ctx, err)
	}

	res, err := c.service.List(ctx.Context(), userId)
	if err != nil {
		return serverutils.ErrorResponse(ctx, err)
	}
	return serverutils.SuccessResponse(ctx, "ok", res)
}

func (c *providerController) Upsert(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return serverutils.ErrorResponse(ctx, err)
	}

	var req dto.UpsertProviderConfigRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.ErrorResponse(ctx, err)
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return serverutils.ErrorResponse(ctx, err)
	}

	res, err := c.service.Upsert(ctx.Context(), userId, &req)
	if err != nil {
		return serverutils.ErrorResponse(ctx, err)
	}
	return serverutils.SuccessResponse(ctx, "provider config saved", res)
}

func (c *providerController) Delete(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return serverutils.ErrorResponse(ctx, err)
	}

	if err := c.service.Delete(ctx.Context(), userId, ctx.Params("provider")); err != nil {
		return serverutils.ErrorResponse(ctx, err)
	}
	return serverutils.SuccessResponse(ctx, "provider config removed", nil)
}

func (c *providerController) Models(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return serverutils.ErrorResponse(ctx, err)
	}

	res, err := c.service.Models(ctx.Context(), userId)
	if err != nil {
		return serverutils.ErrorResponse(ctx, err)
	}
	return serverutils.SuccessResponse(ctx, "ok", res)
}
