package controllers

import (
	"github.com/gofiber/fiber/v2"

	"quizlearn/backend/models"
	"quizlearn/backend/services"
	"quizlearn/backend/utils"
	"quizlearn/backend/validators"
)

type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// [+] Register godoc
// @Summary Register a new user
// @Description Creates a new user account and returns a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param user body validators.RegisterRequest true "User registration data"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	req := validators.Validated[validators.RegisterRequest](c)

	user, err := ac.Auth.Register(c.UserContext(), req.Email, req.Password, req.Name)
	if err != nil {
		return utils.Error(c, err)
	}

	token, err := ac.Auth.IssueToken(user.ID)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Created(c, AuthResponse{User: user, Token: token})
}

// [+] Login godoc
// @Summary User login
// @Description Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validators.LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	req := validators.Validated[validators.LoginRequest](c)

	user, token, err := ac.Auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.OK(c, AuthResponse{User: user, Token: token})
}

// [+] Logout godoc
// @Summary User logout
// @Description Tokens are stateless; the client drops its copy
// @Tags auth
// @Success 204
// @Router /auth/logout [post]
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	return utils.NoContent(c)
}
