package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"campdir/internal/apperr"
	"campdir/internal/middleware"
	"campdir/internal/models"
	"campdir/internal/query"
)

// ReviewStore is the service surface the review handlers need.
type ReviewStore interface {
	List(ctx context.Context, opts query.Options) ([]models.Review, int64, error)
	ListByBootcamp(ctx context.Context, bootcampID string) ([]models.Review, error)
	Get(ctx context.Context, id string) (models.Review, error)
	Create(ctx context.Context, user *models.User, bootcampID string, input models.Review) (models.Review, error)
	Update(ctx context.Context, user *models.User, id string, body []byte) (models.Review, error)
	Delete(ctx context.Context, user *models.User, id string) error
}

type ReviewHandler struct {
	svc ReviewStore
}

func NewReviewHandler(svc ReviewStore) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

// List handles GET /api/v1/reviews and GET /api/v1/bootcamps/:bootcampId/reviews.
func (h *ReviewHandler) List(c *fiber.Ctx) error {
	if bootcampID := c.Params("bootcampId"); bootcampID != "" {
		reviews, err := h.svc.ListByBootcamp(c.Context(), bootcampID)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": true,
			"count":   len(reviews),
			"data":    reviews,
		})
	}

	opts := query.Parse(c.Queries())
	reviews, total, err := h.svc.List(c.Context(), opts)
	if err != nil {
		return err
	}
	return respondList(c, len(reviews), query.Paginate(opts.Page, opts.Limit, total), reviews)
}

// Get handles GET /api/v1/reviews/:id.
func (h *ReviewHandler) Get(c *fiber.Ctx) error {
	review, err := h.svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, review)
}

// Create handles POST /api/v1/bootcamps/:bootcampId/reviews.
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	var input models.Review
	if err := c.BodyParser(&input); err != nil {
		return apperr.BadRequest("Invalid request body")
	}

	review, err := h.svc.Create(c.Context(), middleware.CurrentUser(c), c.Params("bootcampId"), input)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, review)
}

// Update handles PUT /api/v1/reviews/:id.
func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	review, err := h.svc.Update(c.Context(), middleware.CurrentUser(c), c.Params("id"), c.Body())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, review)
}

// Delete handles DELETE /api/v1/reviews/:id.
func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), middleware.CurrentUser(c), c.Params("id")); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{})
}
