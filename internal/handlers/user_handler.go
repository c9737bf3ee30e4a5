package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"campdir/internal/apperr"
	"campdir/internal/models"
	"campdir/internal/query"
)

// UserStore is the service surface the admin user handlers need.
type UserStore interface {
	List(ctx context.Context, opts query.Options) ([]models.User, int64, error)
	Get(ctx context.Context, id string) (models.User, error)
	Create(ctx context.Context, input models.User) (models.User, error)
	Update(ctx context.Context, id string, body []byte) (models.User, error)
	Delete(ctx context.Context, id string) error
}

// UserHandler is mounted behind Protect + Authorize("admin").
type UserHandler struct {
	svc UserStore
}

func NewUserHandler(svc UserStore) *UserHandler {
	return &UserHandler{svc: svc}
}

// List handles GET /api/v1/users.
func (h *UserHandler) List(c *fiber.Ctx) error {
	opts := query.Parse(c.Queries())
	users, total, err := h.svc.List(c.Context(), opts)
	if err != nil {
		return err
	}
	return respondList(c, len(users), query.Paginate(opts.Page, opts.Limit, total), users)
}

// Get handles GET /api/v1/users/:id.
func (h *UserHandler) Get(c *fiber.Ctx) error {
	user, err := h.svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, user)
}

// Create handles POST /api/v1/users.
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var input models.User
	if err := c.BodyParser(&input); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	// BodyParser skips json:"-" fields; read the password explicitly.
	var creds struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&creds); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	input.Password = creds.Password

	user, err := h.svc.Create(c.Context(), input)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, user)
}

// Update handles PUT /api/v1/users/:id.
func (h *UserHandler) Update(c *fiber.Ctx) error {
	user, err := h.svc.Update(c.Context(), c.Params("id"), c.Body())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, user)
}

// Delete handles DELETE /api/v1/users/:id.
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{})
}
