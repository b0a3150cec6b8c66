package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/audit-chat-service/internal/api/dto"
	"github.com/spec-kit/audit-chat-service/internal/auth"
	"github.com/spec-kit/audit-chat-service/internal/service"
	apperrors "github.com/spec-kit/audit-chat-service/pkg/util"
)

// ChatBotHandler exposes the chat agent proxy.
type ChatBotHandler struct {
	chat *service.ChatService
}

// NewChatBotHandler constructs the handler.
func NewChatBotHandler(chatService *service.ChatService) *ChatBotHandler {
	return &ChatBotHandler{chat: chatService}
}

// Ask handles POST /api/v1/chat-bot/ask/agent.
func (h *ChatBotHandler) Ask(c *fiber.Ctx) error {
	var req dto.QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("User not authenticated")
	}

	answer, err := h.chat.Ask(c.UserContext(), principal.UserID, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(answer)
}
