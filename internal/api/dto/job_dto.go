package dto

import (
	"time"

	"github.com/mento-services/marketplace-api/internal/domain"
)

// CreateJobRequest opens a posting.
type CreateJobRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Subcategory *string `json:"subcategory"`
	City        *string `json:"city"`
	BudgetMinor *int64  `json:"budget_minor_units"`
}

// UpdateJobStatusRequest advances the lifecycle.
type UpdateJobStatusRequest struct {
	Status string `json:"status"`
}

// JobResponse is the outward job shape.
type JobResponse struct {
	ID          string    `json:"id"`
	PostedBy    string    `json:"posted_by"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Subcategory *string   `json:"subcategory,omitempty"`
	City        *string   `json:"city,omitempty"`
	BudgetMinor *int64    `json:"budget_minor_units,omitempty"`
	Status      string    `json:"status"`
	Applicants  int       `json:"applicant_count"`
	Views       int64     `json:"views"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewJobResponse maps the domain job. Applicant identities stay private;
// only the count is exposed.
func NewJobResponse(job *domain.Job) JobResponse {
	return JobResponse{
		ID:          job.ID,
		PostedBy:    job.PostedBy,
		Title:       job.Title,
		Description: job.Description,
		Category:    job.Category,
		Subcategory: job.Subcategory,
		City:        job.City,
		BudgetMinor: job.BudgetMinor,
		Status:      string(job.Status),
		Applicants:  len(job.Applicants),
		Views:       job.Views,
		CreatedAt:   job.CreatedAt,
	}
}
