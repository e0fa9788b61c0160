package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mento-services/marketplace-api/internal/api/dto"
	"github.com/mento-services/marketplace-api/internal/auth"
	"github.com/mento-services/marketplace-api/internal/repository"
	"github.com/mento-services/marketplace-api/internal/service"
	apperrors "github.com/mento-services/marketplace-api/pkg/util"
)

// JobSeekersHandler exposes job-seeker profiles.
type JobSeekersHandler struct {
	seekers *service.JobSeekerService
}

// NewJobSeekersHandler constructs handler.
func NewJobSeekersHandler(jobSeekerService *service.JobSeekerService) *JobSeekersHandler {
	return &JobSeekersHandler{seekers: jobSeekerService}
}

// Create handles POST /jobseekers.
func (h *JobSeekersHandler) Create(c *fiber.Ctx) error {
	principal, ok2 := auth.PrincipalFromContext(c)
	if !ok2 {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateJobSeekerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	profile, err := h.seekers.Create(c.UserContext(), principal.User.ID, service.CreateJobSeekerInput{
		Skills:         req.Skills,
		ExperienceYrs:  req.ExperienceYrs,
		PreferredCity:  req.PreferredCity,
		ExpectedSalary: req.ExpectedSalary,
		ResumeURL:      req.ResumeURL,
	})
	if err != nil {
		return err
	}
	return created(c, dto.NewJobSeekerResponse(profile))
}

// Me handles GET /jobseekers/me.
func (h *JobSeekersHandler) Me(c *fiber.Ctx) error {
	principal, ok2 := auth.PrincipalFromContext(c)
	if !ok2 {
		return apperrors.NewUnauthorized("authentication required")
	}

	profile, err := h.seekers.GetOwn(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}
	return ok(c, dto.NewJobSeekerResponse(profile))
}

// Update handles PUT /jobseekers/me.
func (h *JobSeekersHandler) Update(c *fiber.Ctx) error {
	principal, ok2 := auth.PrincipalFromContext(c)
	if !ok2 {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.UpdateJobSeekerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	profile, err := h.seekers.Update(c.UserContext(), principal.User.ID, service.UpdateJobSeekerInput{
		Skills:         req.Skills,
		ExperienceYrs:  req.ExperienceYrs,
		PreferredCity:  req.PreferredCity,
		ExpectedSalary: req.ExpectedSalary,
		ResumeURL:      req.ResumeURL,
		IsAvailable:    req.IsAvailable,
	})
	if err != nil {
		return err
	}
	return ok(c, dto.NewJobSeekerResponse(profile))
}

// Get handles GET /jobseekers/:id.
func (h *JobSeekersHandler) Get(c *fiber.Ctx) error {
	profile, err := h.seekers.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, dto.NewJobSeekerResponse(profile))
}

// List handles GET /jobseekers.
func (h *JobSeekersHandler) List(c *fiber.Ctx) error {
	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := queryInt(c, "limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	profiles, total, err := h.seekers.List(c.UserContext(), repository.JobSeekerFilter{
		PreferredCity: queryString(c, "city"),
		OnlyVerified:  true,
		OnlyAvailable: true,
		Limit:         limit,
		Offset:        (page - 1) * limit,
	})
	if err != nil {
		return err
	}

	items := make([]dto.JobSeekerResponse, 0, len(profiles))
	for i := range profiles {
		items = append(items, dto.NewJobSeekerResponse(&profiles[i]))
	}
	return paged(c, items, total, page, limit)
}
