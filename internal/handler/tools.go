package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/studiopipe/gateway/internal/model"
	"github.com/studiopipe/gateway/internal/service"
	"github.com/studiopipe/gateway/pkg/response"
)

// ToolsHandler serves the agent-facing tool projection. Each endpoint
// maps to exactly one narrow function with a fixed response shape,
// independent of the REST projection.
type ToolsHandler struct {
	service *service.JobService
}

func NewToolsHandler(svc *service.JobService) *ToolsHandler {
	return &ToolsHandler{service: svc}
}

func toJobInfos(jobs []model.Job) []model.JobInfo {
	out := make([]model.JobInfo, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, model.JobInfo{
			ID:     job.ID,
			Name:   job.Name,
			Status: job.Status,
			User:   job.User,
		})
	}
	return out
}

// GetAllJobs handles GET /get_all_jobs
func (h *ToolsHandler) GetAllJobs(c *fiber.Ctx) error {
	jobs, err := h.service.List(c.Context(), model.JobFilters{Limit: service.MaxJobLimit})
	if err != nil {
		return farmError(c, err)
	}
	return response.OK(c, toJobInfos(jobs))
}

// GetJobsByStatus handles GET /get_jobs_by_status/:status
func (h *ToolsHandler) GetJobsByStatus(c *fiber.Ctx) error {
	jobs, err := h.service.ByStatus(c.Context(), c.Params("status"))
	if err != nil {
		return farmError(c, err)
	}
	return response.OK(c, toJobInfos(jobs))
}

// GetJobsByUser handles GET /get_jobs_by_user/:username
func (h *ToolsHandler) GetJobsByUser(c *fiber.Ctx) error {
	jobs, err := h.service.ByUser(c.Context(), c.Params("username"))
	if err != nil {
		return farmError(c, err)
	}
	return response.OK(c, toJobInfos(jobs))
}

// CheckJobStatus handles GET /check_job_status/:id
func (h *ToolsHandler) CheckJobStatus(c *fiber.Ctx) error {
	id := c.Params("id")

	result, err := h.service.CheckStatus(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			return response.NotFound(c, fmt.Sprintf("Job %s not found", id))
		}
		return farmError(c, err)
	}
	return response.OK(c, result)
}

// GetWorkloadSummary handles GET /get_workload_summary
func (h *ToolsHandler) GetWorkloadSummary(c *fiber.Ctx) error {
	summary, err := h.service.WorkloadSummary(c.Context())
	if err != nil {
		return farmError(c, err)
	}
	return response.OK(c, summary)
}

// GetFailedJobs handles GET /get_failed_jobs
func (h *ToolsHandler) GetFailedJobs(c *fiber.Ctx) error {
	jobs, err := h.service.Failed(c.Context())
	if err != nil {
		return farmError(c, err)
	}
	return response.OK(c, toJobInfos(jobs))
}

// GetRunningJobs handles GET /get_running_jobs
func (h *ToolsHandler) GetRunningJobs(c *fiber.Ctx) error {
	jobs, err := h.service.Running(c.Context())
	if err != nil {
		return farmError(c, err)
	}
	return response.OK(c, toJobInfos(jobs))
}

// CountJobsByStatus handles GET /count_jobs_by_status
func (h *ToolsHandler) CountJobsByStatus(c *fiber.Ctx) error {
	counts, err := h.service.CountByStatus(c.Context())
	if err != nil {
		return farmError(c, err)
	}
	return response.OK(c, counts)
}

// ListActiveUsers handles GET /list_active_users
func (h *ToolsHandler) ListActiveUsers(c *fiber.Ctx) error {
	users, err := h.service.ActiveUsers(c.Context())
	if err != nil {
		return farmError(c, err)
	}
	return response.OK(c, users)
}

// IsSystemBusy handles GET /is_system_busy
func (h *ToolsHandler) IsSystemBusy(c *fiber.Ctx) error {
	result, err := h.service.Busyness(c.Context())
	if err != nil {
		return farmError(c, err)
	}
	return response.OK(c, result)
}
