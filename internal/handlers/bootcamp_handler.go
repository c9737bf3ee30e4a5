package handlers

import (
	"context"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"campdir/internal/apperr"
	"campdir/internal/middleware"
	"campdir/internal/models"
	"campdir/internal/query"
)

// BootcampStore is the service surface the bootcamp handlers need.
type BootcampStore interface {
	List(ctx context.Context, opts query.Options) ([]models.Bootcamp, int64, error)
	Get(ctx context.Context, id string) (models.Bootcamp, error)
	Create(ctx context.Context, user *models.User, input models.Bootcamp) (models.Bootcamp, error)
	Update(ctx context.Context, user *models.User, id string, body []byte) (models.Bootcamp, error)
	Delete(ctx context.Context, user *models.User, id string) error
	WithinRadius(ctx context.Context, zipcode string, distance float64) ([]models.Bootcamp, error)
	UploadPhoto(ctx context.Context, user *models.User, id string, file *multipart.FileHeader) (string, error)
}

type BootcampHandler struct {
	svc BootcampStore
}

func NewBootcampHandler(svc BootcampStore) *BootcampHandler {
	return &BootcampHandler{svc: svc}
}

// List handles GET /api/v1/bootcamps with filter/sort/select/pagination.
func (h *BootcampHandler) List(c *fiber.Ctx) error {
	opts := query.Parse(c.Queries())
	bootcamps, total, err := h.svc.List(c.Context(), opts)
	if err != nil {
		return err
	}
	return respondList(c, len(bootcamps), query.Paginate(opts.Page, opts.Limit, total), bootcamps)
}

// Get handles GET /api/v1/bootcamps/:id.
func (h *BootcampHandler) Get(c *fiber.Ctx) error {
	bootcamp, err := h.svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, bootcamp)
}

// Create handles POST /api/v1/bootcamps.
func (h *BootcampHandler) Create(c *fiber.Ctx) error {
	var input models.Bootcamp
	if err := c.BodyParser(&input); err != nil {
		return apperr.BadRequest("Invalid request body")
	}

	bootcamp, err := h.svc.Create(c.Context(), middleware.CurrentUser(c), input)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, bootcamp)
}

// Update handles PUT /api/v1/bootcamps/:id.
func (h *BootcampHandler) Update(c *fiber.Ctx) error {
	bootcamp, err := h.svc.Update(c.Context(), middleware.CurrentUser(c), c.Params("id"), c.Body())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, bootcamp)
}

// Delete handles DELETE /api/v1/bootcamps/:id and cascades to courses and
// reviews.
func (h *BootcampHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), middleware.CurrentUser(c), c.Params("id")); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{})
}

// WithinRadius handles GET /api/v1/bootcamps/radius/:zipcode/:distance.
func (h *BootcampHandler) WithinRadius(c *fiber.Ctx) error {
	distance, err := strconv.ParseFloat(c.Params("distance"), 64)
	if err != nil {
		return apperr.BadRequest("distance must be a number")
	}

	bootcamps, err := h.svc.WithinRadius(c.Context(), c.Params("zipcode"), distance)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"count":   len(bootcamps),
		"data":    bootcamps,
	})
}

// UploadPhoto handles PUT /api/v1/bootcamps/:id/photo.
func (h *BootcampHandler) UploadPhoto(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return apperr.Validation("Please upload a file")
	}

	filename, err := h.svc.UploadPhoto(c.Context(), middleware.CurrentUser(c), c.Params("id"), file)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, filename)
}
