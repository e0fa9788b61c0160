package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mento-services/marketplace-api/internal/api/dto"
	"github.com/mento-services/marketplace-api/internal/auth"
	"github.com/mento-services/marketplace-api/internal/service"
	apperrors "github.com/mento-services/marketplace-api/pkg/util"
)

// AdminHandler bundles the moderation surface: KYC review, profile
// verification, taxonomy management and job intervention.
type AdminHandler struct {
	kyc        *service.KycService
	workers    *service.WorkerService
	seekers    *service.JobSeekerService
	categories *service.CategoryService
	jobs       *service.JobService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(
	kycService *service.KycService,
	workerService *service.WorkerService,
	jobSeekerService *service.JobSeekerService,
	categoryService *service.CategoryService,
	jobService *service.JobService,
) *AdminHandler {
	return &AdminHandler{
		kyc:        kycService,
		workers:    workerService,
		seekers:    jobSeekerService,
		categories: categoryService,
		jobs:       jobService,
	}
}

// ListPendingKyc handles GET /admin/kyc/pending.
func (h *AdminHandler) ListPendingKyc(c *fiber.Ctx) error {
	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := queryInt(c, "limit", 20)

	records, err := h.kyc.ListPending(c.UserContext(), limit, (page-1)*limit)
	if err != nil {
		return err
	}

	items := make([]dto.KycResponse, 0, len(records))
	for i := range records {
		items = append(items, dto.NewKycResponse(&records[i]))
	}
	return ok(c, items)
}

// ReviewKyc handles POST /admin/kyc/:id/review.
func (h *AdminHandler) ReviewKyc(c *fiber.Ctx) error {
	principal, ok2 := auth.PrincipalFromContext(c)
	if !ok2 {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ReviewKycRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	record, err := h.kyc.Review(c.UserContext(), c.Params("id"), principal.User.ID, req.Approve, req.Reason)
	if err != nil {
		return err
	}
	return ok(c, dto.NewKycResponse(record))
}

// VerifyWorker handles PUT /admin/workers/:id/verify.
func (h *AdminHandler) VerifyWorker(c *fiber.Ctx) error {
	var req dto.SetVerifiedRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.workers.SetVerified(c.UserContext(), c.Params("id"), req.Verified); err != nil {
		return err
	}
	return message(c, "worker verification updated")
}

// VerifyJobSeeker handles PUT /admin/jobseekers/:id/verify.
func (h *AdminHandler) VerifyJobSeeker(c *fiber.Ctx) error {
	var req dto.SetVerifiedRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.seekers.SetVerified(c.UserContext(), c.Params("id"), req.Verified); err != nil {
		return err
	}
	return message(c, "job seeker verification updated")
}

// CreateCategory handles POST /admin/categories.
func (h *AdminHandler) CreateCategory(c *fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	category, err := h.categories.Create(c.UserContext(), req.Name, req.Subcategories)
	if err != nil {
		return err
	}
	return created(c, dto.NewCategoryResponse(category))
}

// UpdateCategory handles PUT /admin/categories/:id.
func (h *AdminHandler) UpdateCategory(c *fiber.Ctx) error {
	var req dto.UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	category, err := h.categories.Update(c.UserContext(), c.Params("id"), req.Name, req.Subcategories)
	if err != nil {
		return err
	}
	return ok(c, dto.NewCategoryResponse(category))
}

// DeleteCategory handles DELETE /admin/categories/:id.
func (h *AdminHandler) DeleteCategory(c *fiber.Ctx) error {
	if err := h.categories.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return message(c, "category deleted")
}

// CancelJob handles POST /admin/jobs/:id/cancel.
func (h *AdminHandler) CancelJob(c *fiber.Ctx) error {
	job, err := h.jobs.ForceCancel(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, dto.NewJobResponse(job))
}
