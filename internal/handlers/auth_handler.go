package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"campdir/internal/apperr"
	"campdir/internal/middleware"
	"campdir/internal/models"
)

// AuthStore is the service surface the credential handlers need.
type AuthStore interface {
	Register(ctx context.Context, input models.User) (models.User, string, error)
	Login(ctx context.Context, email, password string) (models.User, string, error)
	UpdateDetails(ctx context.Context, userID primitive.ObjectID, name, email string) (models.User, error)
	UpdatePassword(ctx context.Context, user *models.User, current, next string) (string, error)
	ForgotPassword(ctx context.Context, email string, buildURL func(token string) string) error
	ResetPassword(ctx context.Context, token, password string) (models.User, string, error)
}

type AuthHandler struct {
	svc           AuthStore
	cookieExpire  time.Duration
	secureCookies bool
}

func NewAuthHandler(svc AuthStore, cookieExpire time.Duration, secureCookies bool) *AuthHandler {
	return &AuthHandler{svc: svc, cookieExpire: cookieExpire, secureCookies: secureCookies}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.BodyParser(&input); err != nil {
		return apperr.BadRequest("Invalid request body")
	}

	user, token, err := h.svc.Register(c.Context(), models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
	})
	if err != nil {
		return err
	}
	return respondToken(c, user, token, h.cookieExpire, h.secureCookies)
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return apperr.BadRequest("Invalid request body")
	}

	user, token, err := h.svc.Login(c.Context(), input.Email, input.Password)
	if err != nil {
		return err
	}
	return respondToken(c, user, token, h.cookieExpire, h.secureCookies)
}

// Logout handles POST /api/v1/auth/logout by expiring the token cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    "none",
		Expires:  time.Now().Add(10 * time.Second),
		HTTPOnly: true,
	})
	return respond(c, fiber.StatusOK, fiber.Map{})
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return respond(c, fiber.StatusOK, middleware.CurrentUser(c))
}

// UpdateDetails handles PUT /api/v1/auth/updateUser.
func (h *AuthHandler) UpdateDetails(c *fiber.Ctx) error {
	var input struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := c.BodyParser(&input); err != nil {
		return apperr.BadRequest("Invalid request body")
	}

	user, err := h.svc.UpdateDetails(c.Context(), middleware.CurrentUser(c).ID, input.Name, input.Email)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, user)
}

// UpdatePassword handles PUT /api/v1/auth/updatePassword.
func (h *AuthHandler) UpdatePassword(c *fiber.Ctx) error {
	var input struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return apperr.BadRequest("Invalid request body")
	}

	user := middleware.CurrentUser(c)
	token, err := h.svc.UpdatePassword(c.Context(), user, input.CurrentPassword, input.NewPassword)
	if err != nil {
		return err
	}
	return respondToken(c, *user, token, h.cookieExpire, h.secureCookies)
}

// ForgotPassword handles POST /api/v1/auth/forgot-password.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var input struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&input); err != nil {
		return apperr.BadRequest("Invalid request body")
	}

	protocol, host := c.Protocol(), c.Hostname()
	err := h.svc.ForgotPassword(c.Context(), input.Email, func(token string) string {
		return fmt.Sprintf("%s://%s/api/v1/auth/resetpassword/%s", protocol, host, token)
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Email sent")
}

// ResetPassword handles PUT /api/v1/auth/resetpassword/:token.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var input struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return apperr.BadRequest("Invalid request body")
	}

	user, token, err := h.svc.ResetPassword(c.Context(), c.Params("token"), input.Password)
	if err != nil {
		return err
	}
	return respondToken(c, user, token, h.cookieExpire, h.secureCookies)
}
