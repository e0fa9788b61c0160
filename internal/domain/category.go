package domain

import "time"

// Category is a node in the service taxonomy workers register under.
type Category struct {
	ID            string
	Name          string
	Subcategories []string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
