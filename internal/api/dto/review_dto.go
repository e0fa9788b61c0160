package dto

import (
	"time"

	"github.com/mento-services/marketplace-api/internal/domain"
)

// CreateReviewRequest rates a worker.
type CreateReviewRequest struct {
	Rating  int     `json:"rating"`
	Comment *string `json:"comment"`
}

// ReviewResponse is the outward review shape.
type ReviewResponse struct {
	ID        string    `json:"id"`
	WorkerID  string    `json:"worker_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewReviewResponse maps the domain review.
func NewReviewResponse(review *domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:        review.ID,
		WorkerID:  review.WorkerID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}
}
