package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"quizlearn/backend/apperr"
	"quizlearn/backend/models"
	"quizlearn/backend/services"
	"quizlearn/backend/utils"
)

const (
	userIDKey = "userID"
	userKey   = "user"
)

// AuthMiddleware resolves the bearer token to a user and stores both the
// user and its id in c.Locals.
func AuthMiddleware(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := utils.BearerToken(c)
		if errors.Is(err, utils.ErrInvalidToken) {
			return utils.Error(c, apperr.Authentication("invalid or expired token"))
		}

		user, err := auth.Verify(c.UserContext(), token)
		if err != nil {
			return utils.Error(c, err)
		}

		c.Locals(userIDKey, user.ID)
		c.Locals(userKey, user)
		return c.Next()
	}
}

// AdminMiddleware must run after AuthMiddleware. Admin-only routes are
// hidden from everyone else.
func AdminMiddleware(users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := CurrentUserID(c)
		if userID == "" {
			return utils.Error(c, apperr.Authentication("missing authorization token"))
		}

		ok, err := users.HasRole(c.UserContext(), userID, models.RoleAdmin)
		if err != nil {
			return utils.Error(c, err)
		}
		if !ok {
			return utils.Error(c, apperr.NotFound("resource"))
		}
		return c.Next()
	}
}

func CurrentUserID(c *fiber.Ctx) string {
	id, _ := c.Locals(userIDKey).(string)
	return id
}

func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}
