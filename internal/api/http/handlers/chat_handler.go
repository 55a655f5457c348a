package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/servicedesk/sla-agent/internal/api/dto"
	"github.com/servicedesk/sla-agent/internal/service"
)

// ChatHandler serves the keyword chat assistant.
type ChatHandler struct {
	service *service.ChatService
}

// NewChatHandler constructs handler.
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{service: chatService}
}

// Chat POST /chat. The body is decoded as JSON whatever its Content-Type;
// an unreadable body is treated as an empty message.
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if body := c.Body(); len(body) > 0 {
		if err := c.App().Config().JSONDecoder(body, &req); err != nil {
			req = dto.ChatRequest{}
		}
	}
	return c.JSON(dto.ChatResponse{Response: h.service.Reply(req.Message)})
}
