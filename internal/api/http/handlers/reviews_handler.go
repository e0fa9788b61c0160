package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mento-services/marketplace-api/internal/api/dto"
	"github.com/mento-services/marketplace-api/internal/auth"
	"github.com/mento-services/marketplace-api/internal/service"
	apperrors "github.com/mento-services/marketplace-api/pkg/util"
)

// ReviewsHandler exposes worker reviews.
type ReviewsHandler struct {
	reviews *service.ReviewService
}

// NewReviewsHandler constructs handler.
func NewReviewsHandler(reviewService *service.ReviewService) *ReviewsHandler {
	return &ReviewsHandler{reviews: reviewService}
}

// Create handles POST /workers/:id/reviews.
func (h *ReviewsHandler) Create(c *fiber.Ctx) error {
	principal, ok2 := auth.PrincipalFromContext(c)
	if !ok2 {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	review, err := h.reviews.Create(c.UserContext(), principal.User.ID, service.CreateReviewInput{
		WorkerID: c.Params("id"),
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		return err
	}
	return created(c, dto.NewReviewResponse(review))
}

// ListForWorker handles GET /workers/:id/reviews.
func (h *ReviewsHandler) ListForWorker(c *fiber.Ctx) error {
	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := queryInt(c, "limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	reviews, total, err := h.reviews.ListForWorker(c.UserContext(), c.Params("id"), limit, (page-1)*limit)
	if err != nil {
		return err
	}

	items := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		items = append(items, dto.NewReviewResponse(&reviews[i]))
	}
	return paged(c, items, total, page, limit)
}

// Delete handles DELETE /reviews/:id. Only the author may remove a review.
func (h *ReviewsHandler) Delete(c *fiber.Ctx) error {
	principal, ok2 := auth.PrincipalFromContext(c)
	if !ok2 {
		return apperrors.NewUnauthorized("authentication required")
	}

	if err := h.reviews.Delete(c.UserContext(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return message(c, "review deleted")
}
