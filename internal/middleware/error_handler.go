package middleware

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"campdir/internal/apperr"
)

// ErrorHandler maps service and store faults to the uniform error envelope
// {success:false, error:message}. Every fault category resolves to exactly
// one status; nothing is swallowed except the log line.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := http.StatusInternalServerError
		message := "Server error"

		var ae *apperr.Error
		var fe *fiber.Error
		switch {
		case errors.As(err, &ae):
			status = ae.HTTPStatus()
			message = ae.Message
		case mongo.IsDuplicateKeyError(err):
			status = http.StatusBadRequest
			message = "Duplicate resource"
		case errors.Is(err, mongo.ErrNoDocuments):
			status = http.StatusNotFound
			message = "Resource not found"
		case errors.Is(err, primitive.ErrInvalidHex):
			status = http.StatusNotFound
			message = "Resource not found"
		case errors.As(err, &fe):
			status = fe.Code
			message = fe.Message
		}

		if status >= http.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		} else {
			log.Debug().Err(err).Str("path", c.Path()).Int("status", status).Msg("request rejected")
		}

		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"error":   message,
		})
	}
}
