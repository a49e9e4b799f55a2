package controllers

import (
	"github.com/gofiber/fiber/v2"

	"quizlearn/backend/database"
	"quizlearn/backend/services"
	"quizlearn/backend/utils"
)

type OverviewController struct {
	Topics *services.TopicService
	DB     *database.Client
}

func NewOverviewController(topics *services.TopicService, db *database.Client) *OverviewController {
	return &OverviewController{Topics: topics, DB: db}
}

// GetAllTopics godoc
// @Summary List every topic
// @Description Admin view; each topic carries its owner's progress
// @Tags admin
// @Produce json
// @Success 200 {array} models.Topic
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/topics [get]
func (oc *OverviewController) GetAllTopics(c *fiber.Ctx) error {
	topics, err := oc.Topics.GetAllTopics(c.UserContext())
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.OK(c, topics)
}

// Health godoc
// @Summary Liveness and database check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} utils.ErrorResponse
// @Router /health [get]
func (oc *OverviewController) Health(c *fiber.Ctx) error {
	if err := oc.DB.Ping(c.UserContext()); err != nil {
		return utils.Error(c, err)
	}
	return utils.OK(c, fiber.Map{"status": "ok"})
}
