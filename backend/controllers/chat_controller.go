package controllers

import (
	"github.com/gofiber/fiber/v2"

	"quizlearn/backend/middleware"
	"quizlearn/backend/services"
	"quizlearn/backend/utils"
	"quizlearn/backend/validators"
)

type ChatController struct {
	Chat *services.ChatService
}

func NewChatController(chat *services.ChatService) *ChatController {
	return &ChatController{Chat: chat}
}

// GetHistory godoc
// @Summary Lesson chat history
// @Tags chat
// @Produce json
// @Param id path string true "Lesson ID"
// @Success 200 {array} models.ChatMessage
// @Security ApiKeyAuth
// @Router /chat/lesson/{id} [get]
func (cc *ChatController) GetHistory(c *fiber.Ctx) error {
	history, err := cc.Chat.GetLessonChatHistory(c.UserContext(), middleware.CurrentUserID(c), c.Params("id"))
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.OK(c, history)
}

// AddMessage godoc
// @Summary Append a chat message
// @Description isUserMessage defaults to true
// @Tags chat
// @Accept json
// @Produce json
// @Param id path string true "Lesson ID"
// @Param message body validators.ChatMessageRequest true "Message"
// @Success 201 {object} models.ChatMessage
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /chat/lesson/{id}/message [post]
func (cc *ChatController) AddMessage(c *fiber.Ctx) error {
	req := validators.Validated[validators.ChatMessageRequest](c)

	isUser := true
	if req.IsUserMessage != nil {
		isUser = *req.IsUserMessage
	}

	msg, err := cc.Chat.AddMessage(c.UserContext(), middleware.CurrentUserID(c), req.TopicID, c.Params("id"), isUser, req.MessageText)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Created(c, msg)
}
