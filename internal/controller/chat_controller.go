package controller

import (
	"bufio"
	"context"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/pkg/apperror"
	"ai-chat-be/internal/pkg/serverutils"
	"ai-chat-be/internal/pkg/sse"
	"ai-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	CreateConversation(ctx *fiber.Ctx) error
	ListConversations(ctx *fiber.Ctx) error
	GetConversation(ctx *fiber.Ctx) error
	RenameConversation(ctx *fiber.Ctx) error
	DeleteConversation(ctx *fiber.Ctx) error
	ListMessages(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
}

type chatController struct {
	conversations service.IConversationService
	relay         service.IRelayService
}

func NewChatController(conversations service.IConversationService, relay service.IRelayService) IChatController {
	return &chatController{
		conversations: conversations,
		relay:         relay,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat", serverutils.JwtMiddleware)
	h.Post("/conversations", c.CreateConversation)
	h.Get("/conversations", c.ListConversations)
	h.Get("/conversations/:id", c.GetConversation)
	h.Patch("/conversations/:id", c.RenameConversation)
	h.Delete("/conversations/:id", c.DeleteConversation)
	h.Get("/conversations/:id/messages", c.ListMessages)
	h.Post("/conversations/:id/messages", c.SendMessage)
}

func (c *chatController) CreateConversation(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return serverutils.ErrorResponse(ctx, err)
	}

	var req dto.CreateConversationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.ErrorResponse(ctx, err)
	}

	res, err := c.conversations.Create(ctx.Context(), userId, &req)
	if err != nil {
		return serverutils.ErrorResponse(ctx, err)
	}
	return serverutils.SuccessResponse(ctx, "conversation created", res)
}

func (c *chatController) ListConversations(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return serverutils.ErrorResponse(ctx, err)
	}

	res, err := c.conversations.List(ctx.Context(), userId)
	if err != nil {
		return serverutils.ErrorResponse(ctx, err)
	}
	return serverutils.SuccessResponse(ctx, "ok", res)
}

func (c *chatController) GetConversation(ctx *fiber.Ctx) error {
	userId, conversationId, err := c.identify(ctx)
	if err != nil {
		return serverutils.ErrorResponse(ctx, err)
	}

	res, err := c.conversations.Get(ctx.Context(), userId, conversationId)
	if err != nil {
		return serverutils.ErrorResponse(ctx, err)
	}
	return serverutils.SuccessResponse(ctx, "ok", res)
}

func (c *chatController) RenameConversation(ctx *fiber.Ctx) error {
	userId, conversationId, err := c.identify(ctx)
	if err != nil {
		return serverutils.ErrorResponse(ctx, err)
	}

	var req dto.RenameConversationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.ErrorResponse(ctx, err)
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return serverutils.ErrorResponse(ctx, err)
	}

	res, err := c.conversations.Rename(ctx.Context(), userId, conversationId, &req)
	if err != nil {
		return serverutils.ErrorResponse(ctx, err)
	}
	return serverutils.SuccessResponse(ctx, "conversation renamed", res)
}

func (c *chatController) DeleteConversation(ctx *fiber.Ctx) error {
	userId, conversationId, err := c.identify(ctx)
	if err != nil {
		return serverutils.ErrorResponse(ctx, err)
	}

	if err := c.conversations.Delete(ctx.Context(), userId, conversationId); err != nil {
		return serverutils.ErrorResponse(ctx, err)
	}
	return serverutils.SuccessResponse(ctx, "conversation deleted", nil)
}

func (c *chatController) ListMessages(ctx *fiber.Ctx) error {
	userId, conversationId, err := c.identify(ctx)
	if err != nil {
		return serverutils.ErrorResponse(ctx, err)
	}

	res, err := c.conversations.ListMessages(ctx.Context(), userId, conversationId)
	if err != nil {
		return serverutils.ErrorResponse(ctx, err)
	}
	return serverutils.SuccessResponse(ctx, "ok", res)
}

// SendMessage relays one turn. Response headers stay uncommitted until the
// first provider chunk arrives, so every pre-stream failure is a plain JSON
// error and everything after is SSE frames.
func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	userId, conversationId, err := c.identify(ctx)
	if err != nil {
		return serverutils.ErrorResponse(ctx, err)
	}

	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.ErrorResponse(ctx, err)
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return serverutils.ErrorResponse(ctx, err)
	}

	// The relay outlives this handler (the body writer runs after return),
	// so the turn gets its own context. Cancel signals transport failure.
	relayCtx, cancel := context.WithCancel(context.Background())

	events, err := c.relay.SendMessage(relayCtx, userId, conversationId, &req)
	if err != nil {
		cancel()
		return serverutils.ErrorResponse(ctx, err)
	}

	first, ok := <-events
	if !ok {
		cancel()
		return serverutils.ErrorResponse(ctx, apperror.ProviderError("processing failed"))
	}
	if first.Err != nil {
		cancel()
		return serverutils.ErrorResponse(ctx, first.Err)
	}

	// First chunk arrived: commit SSE headers.
	ctx.Set(fiber.HeaderContentType, sse.HeaderContentType)
	ctx.Set(fiber.HeaderCacheControl, sse.HeaderCacheControl)
	ctx.Set(fiber.HeaderConnection, sse.HeaderConnection)

	ctx.Status(fiber.StatusOK).Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		writer := sse.NewWriter(w)

		if first.Done {
			writer.WriteDone()
			return
		}
		if err := writer.WriteDelta(first.Delta); err != nil {
			return
		}

		for ev := range events {
			switch {
			case ev.Err != nil:
				// Message is already client-safe; raw provider errors never
				// reach this point.
				writer.WriteError(ev.Err.Error())
				return
			case ev.Done:
				writer.WriteDone()
				return
			default:
				if err := writer.WriteDelta(ev.Delta); err != nil {
					// Broken client pipe; cancel lets the relay clean up.
					return
				}
			}
		}
	})
	return nil
}

func (c *chatController) identify(ctx *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	conversationId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, apperror.InvalidInput("invalid conversation id")
	}
	return userId, conversationId, nil
}
