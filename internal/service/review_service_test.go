package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mento-services/marketplace-api/internal/domain"
	apperrors "github.com/mento-services/marketplace-api/pkg/util"
)

type fakeReviewRepo struct {
	byID   map[string]*domain.Review
	nextID int
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{byID: map[string]*domain.Review{}}
}

func (f *fakeReviewRepo) Create(_ context.Context, review *domain.Review) error {
	f.nextID++
	review.ID = fmt.Sprintf("r%d", f.nextID)
	stored := *review
	f.byID[review.ID] = &stored
	return nil
}

func (f *fakeReviewRepo) GetByID(_ context.Context, id string) (*domain.Review, error) {
	review, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *review
	return &copied, nil
}

func (f *fakeReviewRepo) GetByWorkerAndUser(_ context.Context, workerID, userID string) (*domain.Review, error) {
	for _, review := range f.byID {
		if review.WorkerID == workerID && review.UserID == userID {
			copied := *review
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeReviewRepo) ListByWorker(_ context.Context, workerID string, limit, offset int) ([]domain.Review, error) {
	var out []domain.Review
	for _, review := range f.byID {
		if review.WorkerID == workerID {
			out = append(out, *review)
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) CountByWorker(_ context.Context, workerID string) (int64, error) {
	var count int64
	for _, review := range f.byID {
		if review.WorkerID == workerID {
			count++
		}
	}
	return count, nil
}

func (f *fakeReviewRepo) Delete(_ context.Context, id, userID string) error {
	review, ok := f.byID[id]
	if !ok || review.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeReviewRepo) AggregateForWorker(_ context.Context, workerID string) (float64, int64, error) {
	var sum, count int64
	for _, review := range f.byID {
		if review.WorkerID == workerID {
			sum += int64(review.Rating)
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

func newReviewServiceForTest() (*ReviewService, *fakeReviewRepo, *fakeWorkerRepo) {
	reviews := newFakeReviewRepo()
	workers := newFakeWorkerRepo()
	workers.add(domain.WorkerProfile{ID: "w1", UserID: "owner", Category: "plumbing", IsVerified: true, IsAvailable: true})
	svc := NewReviewService(ReviewDependencies{ReviewRepo: reviews, WorkerRepo: workers})
	return svc, reviews, workers
}

func TestCreateReviewRecomputesAggregate(t *testing.T) {
	svc, _, workers := newReviewServiceForTest()
	ctx := context.Background()

	for i, rating := range []int{5, 3, 4} {
		_, err := svc.Create(ctx, fmt.Sprintf("user-%d", i), CreateReviewInput{WorkerID: "w1", Rating: rating})
		require.NoError(t, err)
	}

	worker, err := workers.GetByID(ctx, "w1")
	require.NoError(t, err)
	assert.InDelta(t, 4.0, worker.Rating, 1e-9)
	assert.Equal(t, int64(3), worker.TotalReviews)
}

func TestDeleteReviewRecomputesAggregate(t *testing.T) {
	svc, _, workers := newReviewServiceForTest()
	ctx := context.Background()

	var toDelete string
	for i, rating := range []int{5, 3, 4} {
		review, err := svc.Create(ctx, fmt.Sprintf("user-%d", i), CreateReviewInput{WorkerID: "w1", Rating: rating})
		require.NoError(t, err)
		if rating == 3 {
			toDelete = review.ID
		}
	}

	require.NoError(t, svc.Delete(ctx, "user-1", toDelete))

	worker, err := workers.GetByID(ctx, "w1")
	require.NoError(t, err)
	assert.InDelta(t, 4.5, worker.Rating, 1e-9)
	assert.Equal(t, int64(2), worker.TotalReviews)
}

func TestDeleteLastReviewResetsRating(t *testing.T) {
	svc, _, workers := newReviewServiceForTest()
	ctx := context.Background()

	review, err := svc.Create(ctx, "user-0", CreateReviewInput{WorkerID: "w1", Rating: 5})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "user-0", review.ID))

	worker, err := workers.GetByID(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, worker.Rating)
	assert.Equal(t, int64(0), worker.TotalReviews)
}

func TestCreateReviewRejectsDuplicate(t *testing.T) {
	svc, _, _ := newReviewServiceForTest()
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-0", CreateReviewInput{WorkerID: "w1", Rating: 5})
	require.NoError(t, err)

	_, err = svc.Create(ctx, "user-0", CreateReviewInput{WorkerID: "w1", Rating: 4})
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
}

func TestCreateReviewRejectsSelfReview(t *testing.T) {
	svc, _, _ := newReviewServiceForTest()

	_, err := svc.Create(context.Background(), "owner", CreateReviewInput{WorkerID: "w1", Rating: 5})
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
}

func TestCreateReviewValidatesRatingRange(t *testing.T) {
	svc, _, _ := newReviewServiceForTest()
	ctx := context.Background()

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Create(ctx, "user-0", CreateReviewInput{WorkerID: "w1", Rating: rating})
		require.Error(t, err, "rating %d", rating)
		assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
	}
}

func TestCreateReviewUnknownWorker(t *testing.T) {
	svc, _, _ := newReviewServiceForTest()

	_, err := svc.Create(context.Background(), "user-0", CreateReviewInput{WorkerID: "missing", Rating: 5})
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.ToDomainError(err).HTTPStatus)
}

func TestDeleteReviewOwnershipEnforced(t *testing.T) {
	svc, _, _ := newReviewServiceForTest()
	ctx := context.Background()

	review, err := svc.Create(ctx, "user-0", CreateReviewInput{WorkerID: "w1", Rating: 5})
	require.NoError(t, err)

	err = svc.Delete(ctx, "someone-else", review.ID)
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.ToDomainError(err).HTTPStatus)
}
