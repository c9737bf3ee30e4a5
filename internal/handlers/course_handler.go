package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"campdir/internal/apperr"
	"campdir/internal/middleware"
	"campdir/internal/models"
	"campdir/internal/query"
)

// CourseStore is the service surface the course handlers need.
type CourseStore interface {
	List(ctx context.Context, opts query.Options) ([]models.Course, int64, error)
	ListByBootcamp(ctx context.Context, bootcampID string) ([]models.Course, error)
	Get(ctx context.Context, id string) (models.Course, error)
	Create(ctx context.Context, user *models.User, bootcampID string, input models.Course) (models.Course, error)
	Update(ctx context.Context, user *models.User, id string, body []byte) (models.Course, error)
	Delete(ctx context.Context, user *models.User, id string) error
}

type CourseHandler struct {
	svc CourseStore
}

func NewCourseHandler(svc CourseStore) *CourseHandler {
	return &CourseHandler{svc: svc}
}

// List handles GET /api/v1/courses and GET /api/v1/bootcamps/:bootcampId/courses.
func (h *CourseHandler) List(c *fiber.Ctx) error {
	if bootcampID := c.Params("bootcampId"); bootcampID != "" {
		courses, err := h.svc.ListByBootcamp(c.Context(), bootcampID)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": true,
			"count":   len(courses),
			"data":    courses,
		})
	}

	opts := query.Parse(c.Queries())
	courses, total, err := h.svc.List(c.Context(), opts)
	if err != nil {
		return err
	}
	return respondList(c, len(courses), query.Paginate(opts.Page, opts.Limit, total), courses)
}

// Get handles GET /api/v1/courses/:id.
func (h *CourseHandler) Get(c *fiber.Ctx) error {
	course, err := h.svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, course)
}

// Create handles POST /api/v1/bootcamps/:bootcampId/courses.
func (h *CourseHandler) Create(c *fiber.Ctx) error {
	var input models.Course
	if err := c.BodyParser(&input); err != nil {
		return apperr.BadRequest("Invalid request body")
	}

	course, err := h.svc.Create(c.Context(), middleware.CurrentUser(c), c.Params("bootcampId"), input)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, course)
}

// Update handles PUT /api/v1/courses/:id.
func (h *CourseHandler) Update(c *fiber.Ctx) error {
	course, err := h.svc.Update(c.Context(), middleware.CurrentUser(c), c.Params("id"), c.Body())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, course)
}

// Delete handles DELETE /api/v1/courses/:id.
func (h *CourseHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), middleware.CurrentUser(c), c.Params("id")); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{})
}
