package controllers

import (
	"github.com/gofiber/fiber/v2"

	"quizlearn/backend/middleware"
	"quizlearn/backend/services"
	"quizlearn/backend/utils"
	"quizlearn/backend/validators"
)

type UserController struct {
	Users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{Users: users}
}

// GetMe godoc
// @Summary Get current user
// @Description Returns the authenticated user's profile and roles
// @Tags users
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /users/me [get]
func (uc *UserController) GetMe(c *fiber.Ctx) error {
	user, err := uc.Users.GetUser(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.OK(c, user)
}

// GrantRole godoc
// @Summary Grant a role
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body validators.GrantRoleRequest true "Role"
// @Success 200 {object} models.User
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/users/{id}/roles [post]
func (uc *UserController) GrantRole(c *fiber.Ctx) error {
	req := validators.Validated[validators.GrantRoleRequest](c)

	if err := uc.Users.GrantRole(c.UserContext(), c.Params("id"), req.Role); err != nil {
		return utils.Error(c, err)
	}

	user, err := uc.Users.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.OK(c, user)
}
