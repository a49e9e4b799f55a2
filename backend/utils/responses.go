package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"quizlearn/backend/apperr"
)

// ErrorResponse is the stable error body returned by every endpoint.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Error maps err onto the taxonomy and writes the matching status and body.
// Internal errors never expose the underlying cause.
func Error(c *fiber.Ctx, err error) error {
	e := apperr.As(err)
	return c.Status(e.Kind.Status()).JSON(ErrorResponse{
		Error:  e.Message,
		Fields: e.Fields,
	})
}

// OK writes data with 200.
func OK(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(data)
}

// Created writes data with 201 Created.
func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

// NoContent answers 204 with an empty body.
func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// ErrorHandler is fiber's last resort for errors returned by handlers.
func ErrorHandler(logger *Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(ErrorResponse{Error: fe.Message})
		}

		e := apperr.As(err)
		if e.Kind == apperr.KindInternal || e.Kind == apperr.KindUnavailable {
			logger.Error("Request failed",
				"method", c.Method(),
				"path", c.Path(),
				"kind", e.Kind.String(),
				"error", err,
			)
		}
		return Error(c, e)
	}
}
