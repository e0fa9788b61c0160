package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mento-services/marketplace-api/internal/api/dto"
	"github.com/mento-services/marketplace-api/internal/auth"
	"github.com/mento-services/marketplace-api/internal/domain"
	"github.com/mento-services/marketplace-api/internal/repository"
	"github.com/mento-services/marketplace-api/internal/service"
	apperrors "github.com/mento-services/marketplace-api/pkg/util"
)

// JobsHandler exposes job postings and applications.
type JobsHandler struct {
	jobs *service.JobService
}

// NewJobsHandler constructs handler.
func NewJobsHandler(jobService *service.JobService) *JobsHandler {
	return &JobsHandler{jobs: jobService}
}

// Create handles POST /jobs.
func (h *JobsHandler) Create(c *fiber.Ctx) error {
	principal, ok2 := auth.PrincipalFromContext(c)
	if !ok2 {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	job, err := h.jobs.Create(c.UserContext(), principal.User.ID, service.CreateJobInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		City:        req.City,
		BudgetMinor: req.BudgetMinor,
	})
	if err != nil {
		return err
	}
	return created(c, dto.NewJobResponse(job))
}

// Get handles GET /jobs/:id.
func (h *JobsHandler) Get(c *fiber.Ctx) error {
	job, err := h.jobs.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, dto.NewJobResponse(job))
}

// List handles GET /jobs.
func (h *JobsHandler) List(c *fiber.Ctx) error {
	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := queryInt(c, "limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := repository.JobFilter{
		Category:    queryString(c, "category"),
		Subcategory: queryString(c, "subcategory"),
		City:        queryString(c, "city"),
		Limit:       limit,
		Offset:      (page - 1) * limit,
	}
	if status := c.Query("status"); status != "" {
		filter.Statuses = []domain.JobStatus{domain.JobStatus(status)}
	} else {
		filter.Statuses = []domain.JobStatus{domain.JobStatusOpen}
	}

	jobs, total, err := h.jobs.List(c.UserContext(), filter)
	if err != nil {
		return err
	}

	items := make([]dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		items = append(items, dto.NewJobResponse(&jobs[i]))
	}
	return paged(c, items, total, page, limit)
}

// Mine handles GET /jobs/mine.
func (h *JobsHandler) Mine(c *fiber.Ctx) error {
	principal, ok2 := auth.PrincipalFromContext(c)
	if !ok2 {
		return apperrors.NewUnauthorized("authentication required")
	}

	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := queryInt(c, "limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	jobs, total, err := h.jobs.List(c.UserContext(), repository.JobFilter{
		PostedBy: &principal.User.ID,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
	if err != nil {
		return err
	}

	items := make([]dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		items = append(items, dto.NewJobResponse(&jobs[i]))
	}
	return paged(c, items, total, page, limit)
}

// UpdateStatus handles PUT /jobs/:id/status.
func (h *JobsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok2 := auth.PrincipalFromContext(c)
	if !ok2 {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.UpdateJobStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	job, err := h.jobs.UpdateStatus(c.UserContext(), principal.User.ID, c.Params("id"), domain.JobStatus(req.Status))
	if err != nil {
		return err
	}
	return ok(c, dto.NewJobResponse(job))
}

// Apply handles POST /jobs/:id/apply.
func (h *JobsHandler) Apply(c *fiber.Ctx) error {
	principal, ok2 := auth.PrincipalFromContext(c)
	if !ok2 {
		return apperrors.NewUnauthorized("authentication required")
	}

	if err := h.jobs.Apply(c.UserContext(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return message(c, "application recorded")
}

// Delete handles DELETE /jobs/:id.
func (h *JobsHandler) Delete(c *fiber.Ctx) error {
	principal, ok2 := auth.PrincipalFromContext(c)
	if !ok2 {
		return apperrors.NewUnauthorized("authentication required")
	}

	if err := h.jobs.Delete(c.UserContext(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return message(c, "job deleted")
}
