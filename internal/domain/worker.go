package domain

import "time"

// Location is a geographic point stored as [longitude, latitude].
type Location struct {
	Longitude float64
	Latitude  float64
}

// WorkerProfile is the service-provider profile. It exists only for users
// holding (or having held) an active worker subscription, and carries the
// aggregate rating maintained by the review flow.
type WorkerProfile struct {
	ID           string
	UserID       string
	Category     string
	Subcategory  *string
	Description  *string
	PlanTier     int
	IsVerified   bool
	IsAvailable  bool
	Location     *Location
	Rating       float64
	TotalReviews int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
