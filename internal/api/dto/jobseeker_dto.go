package dto

import (
	"time"

	"github.com/mento-services/marketplace-api/internal/domain"
)

// CreateJobSeekerRequest opens a job-seeker profile.
type CreateJobSeekerRequest struct {
	Skills         []string `json:"skills"`
	ExperienceYrs  int      `json:"experience_years"`
	PreferredCity  *string  `json:"preferred_city"`
	ExpectedSalary *int64   `json:"expected_salary"`
	ResumeURL      *string  `json:"resume_url"`
}

// UpdateJobSeekerRequest mutates a job-seeker profile.
type UpdateJobSeekerRequest struct {
	Skills         []string `json:"skills"`
	ExperienceYrs  *int     `json:"experience_years"`
	PreferredCity  *string  `json:"preferred_city"`
	ExpectedSalary *int64   `json:"expected_salary"`
	ResumeURL      *string  `json:"resume_url"`
	IsAvailable    *bool    `json:"is_available"`
}

// JobSeekerResponse is the outward job-seeker shape.
type JobSeekerResponse struct {
	ID             string    `json:"id"`
	Skills         []string  `json:"skills"`
	ExperienceYrs  int       `json:"experience_years"`
	PreferredCity  *string   `json:"preferred_city,omitempty"`
	ExpectedSalary *int64    `json:"expected_salary,omitempty"`
	ResumeURL      *string   `json:"resume_url,omitempty"`
	PlanTier       int       `json:"plan_tier"`
	IsVerified     bool      `json:"is_verified"`
	IsAvailable    bool      `json:"is_available"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewJobSeekerResponse maps the domain profile.
func NewJobSeekerResponse(profile *domain.JobSeekerProfile) JobSeekerResponse {
	return JobSeekerResponse{
		ID:             profile.ID,
		Skills:         profile.Skills,
		ExperienceYrs:  profile.ExperienceYrs,
		PreferredCity:  profile.PreferredCity,
		ExpectedSalary: profile.ExpectedSalary,
		ResumeURL:      profile.ResumeURL,
		PlanTier:       profile.PlanTier,
		IsVerified:     profile.IsVerified,
		IsAvailable:    profile.IsAvailable,
		CreatedAt:      profile.CreatedAt,
	}
}
