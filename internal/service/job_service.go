package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/mento-services/marketplace-api/internal/domain"
	"github.com/mento-services/marketplace-api/internal/repository"
	apperrors "github.com/mento-services/marketplace-api/pkg/util"
)

// allowedJobTransitions encodes the job lifecycle; anything absent here
// is rejected.
var allowedJobTransitions = map[domain.JobStatus][]domain.JobStatus{
	domain.JobStatusOpen:       {domain.JobStatusInProgress, domain.JobStatusCancelled},
	domain.JobStatusInProgress: {domain.JobStatusCompleted, domain.JobStatusCancelled},
}

// CreateJobInput carries a new posting.
type CreateJobInput struct {
	Title       string
	Description string
	Category    string
	Subcategory *string
	City        *string
	BudgetMinor *int64
}

// JobService manages job postings.
type JobService struct {
	jobs repository.JobRepository
}

// NewJobService builds the service.
func NewJobService(jobs repository.JobRepository) *JobService {
	return &JobService{jobs: jobs}
}

// Create opens a posting for the caller.
func (s *JobService) Create(ctx context.Context, userID string, input CreateJobInput) (*domain.Job, error) {
	if input.Title == "" || input.Description == "" || input.Category == "" {
		return nil, apperrors.NewValidationError("title, description and category are required", nil)
	}
	if input.BudgetMinor != nil && *input.BudgetMinor < 0 {
		return nil, apperrors.NewValidationError("budget cannot be negative", nil)
	}

	job := &domain.Job{
		PostedBy:    userID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Subcategory: input.Subcategory,
		City:        input.City,
		BudgetMinor: input.BudgetMinor,
		Status:      domain.JobStatusOpen,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return job, nil
}

// Get returns a posting and counts the view.
func (s *JobService) Get(ctx context.Context, id string) (*domain.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("job", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	// view counting is best effort
	if err := s.jobs.IncrementViews(ctx, id); err == nil {
		job.Views++
	}
	return job, nil
}

// List returns a page of postings plus the total.
func (s *JobService) List(ctx context.Context, filter repository.JobFilter) ([]domain.Job, int64, error) {
	jobs, err := s.jobs.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.NewInternalError(err)
	}
	total, err := s.jobs.CountWithFilter(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.NewInternalError(err)
	}
	return jobs, total, nil
}

// UpdateStatus advances the lifecycle for the posting owner.
func (s *JobService) UpdateStatus(ctx context.Context, userID, jobID string, next domain.JobStatus) (*domain.Job, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("job", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	if job.PostedBy != userID {
		return nil, apperrors.NewNotFound("job", nil)
	}

	if !transitionAllowed(job.Status, next) {
		return nil, apperrors.NewValidationError("invalid status transition", map[string]any{
			"from": job.Status,
			"to":   next,
		})
	}

	job.Status = next
	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return job, nil
}

// Apply adds the caller to the applicant list once.
func (s *JobService) Apply(ctx context.Context, userID, jobID string) error {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("job", nil)
		}
		return apperrors.NewInternalError(err)
	}
	if job.Status != domain.JobStatusOpen {
		return apperrors.NewValidationError("job is not open for applications", nil)
	}
	if job.PostedBy == userID {
		return apperrors.NewValidationError("you cannot apply to your own job", nil)
	}

	if err := s.jobs.AddApplicant(ctx, jobID, userID); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewValidationError("you have already applied to this job", nil)
		}
		return apperrors.NewInternalError(err)
	}
	return nil
}

// Delete soft-deletes the caller's posting.
func (s *JobService) Delete(ctx context.Context, userID, jobID string) error {
	if err := s.jobs.SoftDelete(ctx, jobID, userID); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("job", nil)
		}
		return apperrors.NewInternalError(err)
	}
	return nil
}

// ForceCancel is the moderator override for a posting that breaks the
// rules; it skips the owner check and the transition table.
func (s *JobService) ForceCancel(ctx context.Context, jobID string) (*domain.Job, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("job", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	job.Status = domain.JobStatusCancelled
	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return job, nil
}

func transitionAllowed(from, to domain.JobStatus) bool {
	for _, allowed := range allowedJobTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
