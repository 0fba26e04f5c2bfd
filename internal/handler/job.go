package handler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/studiopipe/gateway/internal/model"
	"github.com/studiopipe/gateway/internal/service"
	"github.com/studiopipe/gateway/pkg/response"
)

// JobHandler serves the human-facing REST projection of farm jobs.
type JobHandler struct {
	service   *service.JobService
	validator *validator.Validate
}

func NewJobHandler(svc *service.JobService, v *validator.Validate) *JobHandler {
	return &JobHandler{
		service:   svc,
		validator: v,
	}
}

// List handles GET /jobs?status=&user=&limit=
func (h *JobHandler) List(c *fiber.Ctx) error {
	filters := model.JobFilters{
		Status: c.Query("status"),
		User:   c.Query("user"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return response.ValidationError(c, "Invalid limit parameter", map[string]string{"limit": "integer"})
		}
		filters.Limit = limit
	}

	jobs, err := h.service.List(c.Context(), filters)
	if err != nil {
		return farmError(c, err)
	}
	return response.OK(c, jobs)
}

// Get handles GET /jobs/:id
func (h *JobHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")

	job, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			return response.NotFound(c, fmt.Sprintf("Job %s not found", id))
		}
		return farmError(c, err)
	}
	return response.OK(c, job)
}

// Submit handles POST /jobs
func (h *JobHandler) Submit(c *fiber.Ctx) error {
	var req model.SubmitJobRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	result, err := h.service.Submit(c.Context(), &req)
	if err != nil {
		return farmError(c, err)
	}
	return response.Accepted(c, result)
}

// Cancel handles DELETE /jobs/:id
func (h *JobHandler) Cancel(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.service.Cancel(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			return response.NotFound(c, fmt.Sprintf("Job %s not found", id))
		}
		return farmError(c, err)
	}
	return response.OK(c, fiber.Map{"job_id": id, "cancelled": true})
}

// Status handles GET /status
func (h *JobHandler) Status(c *fiber.Ctx) error {
	return response.OK(c, h.service.Status(c.Context()))
}

// Pools handles GET /pools
func (h *JobHandler) Pools(c *fiber.Ctx) error {
	pools, err := h.service.Pools(c.Context())
	if err != nil {
		return farmError(c, err)
	}
	return response.OK(c, fiber.Map{"pools": pools})
}

// Groups handles GET /groups
func (h *JobHandler) Groups(c *fiber.Ctx) error {
	groups, err := h.service.Groups(c.Context())
	if err != nil {
		return farmError(c, err)
	}
	return response.OK(c, fiber.Map{"groups": groups})
}

// farmError maps farm client failures to the response taxonomy.
func farmError(c *fiber.Ctx, err error) error {
	if service.IsUnavailable(err) {
		return response.UpstreamUnavailable(c, "Render farm webservice unavailable")
	}
	return response.ServiceError(c, err.Error())
}
