package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/mento-services/marketplace-api/internal/api/dto"
	"github.com/mento-services/marketplace-api/internal/auth"
	"github.com/mento-services/marketplace-api/internal/repository"
	"github.com/mento-services/marketplace-api/internal/service"
	apperrors "github.com/mento-services/marketplace-api/pkg/util"
)

// WorkersHandler exposes worker profiles and the proximity search.
type WorkersHandler struct {
	workers *service.WorkerService
}

// NewWorkersHandler constructs handler.
func NewWorkersHandler(workerService *service.WorkerService) *WorkersHandler {
	return &WorkersHandler{workers: workerService}
}

// Create handles POST /workers.
func (h *WorkersHandler) Create(c *fiber.Ctx) error {
	principal, ok2 := auth.PrincipalFromContext(c)
	if !ok2 {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateWorkerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	worker, err := h.workers.Create(c.UserContext(), principal.User.ID, service.CreateWorkerInput{
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	})
	if err != nil {
		return err
	}
	return created(c, dto.NewWorkerResponse(worker))
}

// Me handles GET /workers/me.
func (h *WorkersHandler) Me(c *fiber.Ctx) error {
	principal, ok2 := auth.PrincipalFromContext(c)
	if !ok2 {
		return apperrors.NewUnauthorized("authentication required")
	}

	worker, err := h.workers.GetOwn(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}
	return ok(c, dto.NewWorkerResponse(worker))
}

// Update handles PUT /workers/me.
func (h *WorkersHandler) Update(c *fiber.Ctx) error {
	principal, ok2 := auth.PrincipalFromContext(c)
	if !ok2 {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.UpdateWorkerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	worker, err := h.workers.Update(c.UserContext(), principal.User.ID, service.UpdateWorkerInput{
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		return err
	}
	return ok(c, dto.NewWorkerResponse(worker))
}

// Get handles GET /workers/:id.
func (h *WorkersHandler) Get(c *fiber.Ctx) error {
	worker, err := h.workers.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, dto.NewWorkerResponse(worker))
}

// List handles GET /workers.
func (h *WorkersHandler) List(c *fiber.Ctx) error {
	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := queryInt(c, "limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	workers, total, err := h.workers.List(c.UserContext(), repository.WorkerFilter{
		Category:     queryString(c, "category"),
		Subcategory:  queryString(c, "subcategory"),
		OnlyVerified: true,
		Limit:        limit,
		Offset:       (page - 1) * limit,
	})
	if err != nil {
		return err
	}

	items := make([]dto.WorkerResponse, 0, len(workers))
	for i := range workers {
		items = append(items, dto.NewWorkerResponse(&workers[i]))
	}
	return paged(c, items, total, page, limit)
}

// Nearby handles GET /workers/nearby?latitude=..&longitude=..
func (h *WorkersHandler) Nearby(c *fiber.Ctx) error {
	latitude, err := strconv.ParseFloat(c.Query("latitude"), 64)
	if err != nil {
		return apperrors.NewValidationError("latitude is required", nil)
	}
	longitude, err := strconv.ParseFloat(c.Query("longitude"), 64)
	if err != nil {
		return apperrors.NewValidationError("longitude is required", nil)
	}

	result, err := h.workers.SearchNearby(c.UserContext(), service.NearbySearchInput{
		Latitude:    latitude,
		Longitude:   longitude,
		Category:    queryString(c, "category"),
		Subcategory: queryString(c, "subcategory"),
		Page:        queryInt(c, "page", 1),
		Limit:       queryInt(c, "limit", 20),
	})
	if err != nil {
		return err
	}

	items := make([]dto.NearbyWorkerResponse, 0, len(result.Workers))
	for _, match := range result.Workers {
		items = append(items, dto.NewNearbyWorkerResponse(match))
	}
	return paged(c, items, result.Total, result.Page, result.Limit)
}
