package domain

import "time"

// JobSeekerProfile is the employment-seeker profile, gated the same way as
// worker profiles but without geo search or ratings.
type JobSeekerProfile struct {
	ID             string
	UserID         string
	Skills         []string
	ExperienceYrs  int
	PreferredCity  *string
	ExpectedSalary *int64
	ResumeURL      *string
	PlanTier       int
	IsVerified     bool
	IsAvailable    bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
