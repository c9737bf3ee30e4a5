package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"campdir/internal/models"
	"campdir/internal/query"
)

// respond writes the uniform success envelope.
func respond(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// respondList adds the page count and cursors. count is the size of the
// current page, not the total.
func respondList(c *fiber.Ctx, count int, pagination query.Pagination, data any) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":    true,
		"count":      count,
		"pagination": pagination,
		"data":       data,
	})
}

// respondToken returns a signed token and mirrors it into an httpOnly
// cookie so browser clients authenticate without storing the token
// themselves.
func respondToken(c *fiber.Ctx, user models.User, token string, cookieExpire time.Duration, secure bool) error {
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(cookieExpire),
		HTTPOnly: true,
		Secure:   secure,
	})
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"token":   token,
		"data":    user,
	})
}
