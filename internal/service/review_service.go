package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mento-services/marketplace-api/internal/domain"
	"github.com/mento-services/marketplace-api/internal/events"
	"github.com/mento-services/marketplace-api/internal/repository"
	apperrors "github.com/mento-services/marketplace-api/pkg/util"
)

// CreateReviewInput carries a new review.
type CreateReviewInput struct {
	WorkerID string
	Rating   int
	Comment  *string
}

// ReviewService manages reviews and keeps the worker's aggregate rating
// in step with them.
type ReviewService struct {
	reviews    repository.ReviewRepository
	workers    repository.WorkerRepository
	dispatcher events.Dispatcher
}

// ReviewDependencies encapsulates repo requirements.
type ReviewDependencies struct {
	ReviewRepo repository.ReviewRepository
	WorkerRepo repository.WorkerRepository
	Dispatcher events.Dispatcher
}

// NewReviewService builds the service.
func NewReviewService(deps ReviewDependencies) *ReviewService {
	return &ReviewService{
		reviews:    deps.ReviewRepo,
		workers:    deps.WorkerRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Create records one review per (worker, user) pair and recomputes the
// worker's aggregate from all surviving reviews.
func (s *ReviewService) Create(ctx context.Context, userID string, input CreateReviewInput) (*domain.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5", nil)
	}

	worker, err := s.workers.GetByID(ctx, input.WorkerID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("worker profile", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	if worker.UserID == userID {
		return nil, apperrors.NewValidationError("you cannot review your own profile", nil)
	}

	if _, err := s.reviews.GetByWorkerAndUser(ctx, input.WorkerID, userID); err == nil {
		return nil, apperrors.NewValidationError("you have already reviewed this worker", nil)
	} else if err != pgx.ErrNoRows {
		return nil, apperrors.NewInternalError(err)
	}

	review := &domain.Review{
		WorkerID: input.WorkerID,
		UserID:   userID,
		Rating:   input.Rating,
		Comment:  input.Comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if err := s.recompute(ctx, input.WorkerID); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventReviewCreated,
			UserID:    userID,
			Timestamp: time.Now(),
			Payload:   events.ReviewCreatedPayload{ReviewID: review.ID, WorkerID: review.WorkerID, Rating: review.Rating},
		})
	}
	return review, nil
}

// ListForWorker returns a page of a worker's reviews plus the total.
func (s *ReviewService) ListForWorker(ctx context.Context, workerID string, limit, offset int) ([]domain.Review, int64, error) {
	reviews, err := s.reviews.ListByWorker(ctx, workerID, limit, offset)
	if err != nil {
		return nil, 0, apperrors.NewInternalError(err)
	}
	total, err := s.reviews.CountByWorker(ctx, workerID)
	if err != nil {
		return nil, 0, apperrors.NewInternalError(err)
	}
	return reviews, total, nil
}

// Delete removes the caller's review and recomputes the aggregate. When
// the last review goes, the rating resets to zero.
func (s *ReviewService) Delete(ctx context.Context, userID, reviewID string) error {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("review", nil)
		}
		return apperrors.NewInternalError(err)
	}

	if err := s.reviews.Delete(ctx, reviewID, userID); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("review", nil)
		}
		return apperrors.NewInternalError(err)
	}

	return s.recompute(ctx, review.WorkerID)
}

// recompute reads the full aggregate rather than adjusting incrementally;
// drift is impossible and the review volume keeps the O(n) read cheap.
func (s *ReviewService) recompute(ctx context.Context, workerID string) error {
	avg, count, err := s.reviews.AggregateForWorker(ctx, workerID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.workers.UpdateRating(ctx, workerID, avg, count); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}
