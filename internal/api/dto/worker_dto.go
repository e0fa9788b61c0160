package dto

import (
	"time"

	"github.com/mento-services/marketplace-api/internal/domain"
	"github.com/mento-services/marketplace-api/internal/service"
)

// CreateWorkerRequest opens a worker profile.
type CreateWorkerRequest struct {
	Category    string   `json:"category"`
	Subcategory *string  `json:"subcategory"`
	Description *string  `json:"description"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// UpdateWorkerRequest mutates a worker profile.
type UpdateWorkerRequest struct {
	Category    *string  `json:"category"`
	Subcategory *string  `json:"subcategory"`
	Description *string  `json:"description"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	IsAvailable *bool    `json:"is_available"`
}

// WorkerResponse is the outward worker shape.
type WorkerResponse struct {
	ID           string     `json:"id"`
	Category     string     `json:"category"`
	Subcategory  *string    `json:"subcategory,omitempty"`
	Description  *string    `json:"description,omitempty"`
	PlanTier     int        `json:"plan_tier"`
	IsVerified   bool       `json:"is_verified"`
	IsAvailable  bool       `json:"is_available"`
	Location     []float64  `json:"location,omitempty"`
	Rating       float64    `json:"rating"`
	TotalReviews int64      `json:"total_reviews"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NearbyWorkerResponse adds the computed distance.
type NearbyWorkerResponse struct {
	WorkerResponse
	DistanceMeters float64 `json:"distance_meters"`
}

// NewWorkerResponse maps the domain profile. Location serializes as
// [longitude, latitude].
func NewWorkerResponse(worker *domain.WorkerProfile) WorkerResponse {
	resp := WorkerResponse{
		ID:           worker.ID,
		Category:     worker.Category,
		Subcategory:  worker.Subcategory,
		Description:  worker.Description,
		PlanTier:     worker.PlanTier,
		IsVerified:   worker.IsVerified,
		IsAvailable:  worker.IsAvailable,
		Rating:       worker.Rating,
		TotalReviews: worker.TotalReviews,
		CreatedAt:    worker.CreatedAt,
	}
	if worker.Location != nil {
		resp.Location = []float64{worker.Location.Longitude, worker.Location.Latitude}
	}
	return resp
}

// NewNearbyWorkerResponse maps one ranked search result.
func NewNearbyWorkerResponse(match service.NearbyWorker) NearbyWorkerResponse {
	return NearbyWorkerResponse{
		WorkerResponse: NewWorkerResponse(&match.Worker),
		DistanceMeters: match.DistanceMeters,
	}
}
