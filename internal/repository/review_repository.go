package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mento-services/marketplace-api/internal/domain"
)

// ReviewRepository encapsulates review persistence and the aggregate
// recomputation query used by the rating flow.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	GetByWorkerAndUser(ctx context.Context, workerID, userID string) (*domain.Review, error)
	ListByWorker(ctx context.Context, workerID string, limit, offset int) ([]domain.Review, error)
	CountByWorker(ctx context.Context, workerID string) (int64, error)
	Delete(ctx context.Context, id, userID string) error
	AggregateForWorker(ctx context.Context, workerID string) (avg float64, count int64, err error)
}

type reviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository instantiates repository.
func NewReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &reviewRepository{pool: pool}
}

const reviewColumns = `id, worker_id, user_id, rating, comment, created_at, updated_at`

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	const query = `
        INSERT INTO reviews (worker_id, user_id, rating, comment)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		review.WorkerID,
		review.UserID,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
}

func (r *reviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	const query = `SELECT ` + reviewColumns + ` FROM reviews WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *reviewRepository) GetByWorkerAndUser(ctx context.Context, workerID, userID string) (*domain.Review, error) {
	const query = `SELECT ` + reviewColumns + ` FROM reviews WHERE worker_id=$1 AND user_id=$2`
	return r.fetchSingle(ctx, query, workerID, userID)
}

func (r *reviewRepository) ListByWorker(ctx context.Context, workerID string, limit, offset int) ([]domain.Review, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT ` + reviewColumns + ` FROM reviews
        WHERE worker_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, workerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Review
	for rows.Next() {
		var review domain.Review
		if err := rows.Scan(
			&review.ID,
			&review.WorkerID,
			&review.UserID,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
			&review.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, review)
	}
	return result, rows.Err()
}

func (r *reviewRepository) CountByWorker(ctx context.Context, workerID string) (int64, error) {
	const query = `SELECT COUNT(*) FROM reviews WHERE worker_id=$1`
	var count int64
	if err := r.pool.QueryRow(ctx, query, workerID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *reviewRepository) Delete(ctx context.Context, id, userID string) error {
	const query = `DELETE FROM reviews WHERE id=$1 AND user_id=$2`
	cmd, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// AggregateForWorker recomputes the mean over every review for the worker.
func (r *reviewRepository) AggregateForWorker(ctx context.Context, workerID string) (float64, int64, error) {
	const query = `SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM reviews WHERE worker_id=$1`
	var avg float64
	var count int64
	if err := r.pool.QueryRow(ctx, query, workerID).Scan(&avg, &count); err != nil {
		return 0, 0, err
	}
	return avg, count, nil
}

func (r *reviewRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Review, error) {
	var review domain.Review
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&review.ID,
		&review.WorkerID,
		&review.UserID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
		&review.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &review, nil
}
