package domain

import "time"

// Review is a single rating left by a user for a worker. One review per
// (worker, user) pair; rating is an integer in [1,5].
type Review struct {
	ID        string
	WorkerID  string
	UserID    string
	Rating    int
	Comment   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
