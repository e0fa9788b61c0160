package domain

import "time"

// JobStatus enumerates the job lifecycle.
type JobStatus string

const (
	JobStatusOpen       JobStatus = "OPEN"
	JobStatusInProgress JobStatus = "IN_PROGRESS"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusCancelled  JobStatus = "CANCELLED"
)

// Job is a work posting created by a KYC-approved user. Jobs are
// soft-deleted via IsActive and track applicants and a view counter.
type Job struct {
	ID          string
	PostedBy    string
	Title       string
	Description string
	Category    string
	Subcategory *string
	City        *string
	BudgetMinor *int64
	Status      JobStatus
	IsActive    bool
	Applicants  []string
	Views       int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
