package controller

import (
	"ai-jobadvisor-be/internal/dto"
	"ai-jobadvisor-be/internal/pkg/serverutils"
	"ai-jobadvisor-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router, sessionMiddleware fiber.Handler)
	Chat(ctx *fiber.Ctx) error
	Reset(ctx *fiber.Ctx) error
	SessionInfo(ctx *fiber.Ctx) error
	SessionStats(ctx *fiber.Ctx) error
	ClearSession(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router, sessionMiddleware fiber.Handler) {
	h := r.Group("")
	h.Use(sessionMiddleware)
	h.Post("/chat", c.Chat)
	h.Post("/chat/reset", c.Reset)
	h.Get("/session/info", c.SessionInfo)
	h.Get("/session/stats", c.SessionStats)
	h.Delete("/session/clear", c.ClearSession)
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.SendChat(ctx.Context(), serverutils.SessionID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *chatController) Reset(ctx *fiber.Ctx) error {
	res, err := c.chatService.ResetConversation(ctx.Context(), serverutils.SessionID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Conversation reset", res))
}

func (c *chatController) SessionInfo(ctx *fiber.Ctx) error {
	res, err := c.chatService.SessionInfo(ctx.Context(), serverutils.SessionID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *chatController) SessionStats(ctx *fiber.Ctx) error {
	res, err := c.chatService.SessionStats(ctx.Context(), serverutils.SessionID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *chatController) ClearSession(ctx *fiber.Ctx) error {
	force := ctx.Get("X-Force-Clear") == "true"
	res, err := c.chatService.ClearSession(ctx.Context(), serverutils.SessionID(ctx), force)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session cleared", res))
}
