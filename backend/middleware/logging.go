package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"quizlearn/backend/apperr"
	"quizlearn/backend/utils"
)

func LoggingMiddleware(logger *utils.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			// The central error handler has not written the status yet.
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = apperr.As(err).Kind.Status()
			}
		}

		kv := []interface{}{
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", time.Since(start).String(),
			"ip", c.IP(),
		}
		if userID := CurrentUserID(c); userID != "" {
			kv = append(kv, "user_id", userID)
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			logger.Warn("Request", kv...)
		default:
			logger.Info("Request", kv...)
		}
		return err
	}
}
