package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mento-services/marketplace-api/internal/domain"
)

// WorkerFilter captures worker listing parameters.
type WorkerFilter struct {
	Category     *string
	Subcategory  *string
	OnlyVerified bool
	Limit        int
	Offset       int
}

// WorkerRepository encapsulates worker profile persistence.
type WorkerRepository interface {
	Create(ctx context.Context, worker *domain.WorkerProfile) error
	Update(ctx context.Context, worker *domain.WorkerProfile) error
	GetByID(ctx context.Context, id string) (*domain.WorkerProfile, error)
	GetByUserID(ctx context.Context, userID string) (*domain.WorkerProfile, error)
	UpdateRating(ctx context.Context, id string, rating float64, totalReviews int64) error
	SetVerified(ctx context.Context, id string, verified bool) error
	ListWithFilter(ctx context.Context, filter WorkerFilter) ([]domain.WorkerProfile, error)
	CountWithFilter(ctx context.Context, filter WorkerFilter) (int64, error)
	ListGeoCandidates(ctx context.Context, category, subcategory *string) ([]domain.WorkerProfile, error)
}

type workerRepository struct {
	pool *pgxpool.Pool
}

// NewWorkerRepository instantiates repository.
func NewWorkerRepository(pool *pgxpool.Pool) WorkerRepository {
	return &workerRepository{pool: pool}
}

const workerColumns = `id, user_id, category, subcategory, description, plan_tier, is_verified, is_available, longitude, latitude, rating, total_reviews, created_at, updated_at`

func (r *workerRepository) Create(ctx context.Context, worker *domain.WorkerProfile) error {
	const query = `
        INSERT INTO worker_profiles (user_id, category, subcategory, description, plan_tier, is_available, longitude, latitude)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, is_verified, rating, total_reviews, created_at, updated_at`
	lng, lat := locationColumns(worker.Location)
	return r.pool.QueryRow(ctx, query,
		worker.UserID,
		worker.Category,
		worker.Subcategory,
		worker.Description,
		worker.PlanTier,
		worker.IsAvailable,
		lng,
		lat,
	).Scan(&worker.ID, &worker.IsVerified, &worker.Rating, &worker.TotalReviews, &worker.CreatedAt, &worker.UpdatedAt)
}

func (r *workerRepository) Update(ctx context.Context, worker *domain.WorkerProfile) error {
	const query = `
        UPDATE worker_profiles SET category=$1, subcategory=$2, description=$3, plan_tier=$4,
            is_available=$5, longitude=$6, latitude=$7, updated_at=NOW()
        WHERE id=$8`
	lng, lat := locationColumns(worker.Location)
	cmd, err := r.pool.Exec(ctx, query,
		worker.Category,
		worker.Subcategory,
		worker.Description,
		worker.PlanTier,
		worker.IsAvailable,
		lng,
		lat,
		worker.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *workerRepository) GetByID(ctx context.Context, id string) (*domain.WorkerProfile, error) {
	const query = `SELECT ` + workerColumns + ` FROM worker_profiles WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *workerRepository) GetByUserID(ctx context.Context, userID string) (*domain.WorkerProfile, error) {
	const query = `SELECT ` + workerColumns + ` FROM worker_profiles WHERE user_id=$1`
	return r.fetchSingle(ctx, query, userID)
}

func (r *workerRepository) UpdateRating(ctx context.Context, id string, rating float64, totalReviews int64) error {
	const query = `UPDATE worker_profiles SET rating=$1, total_reviews=$2, updated_at=NOW() WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, rating, totalReviews, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *workerRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	const query = `UPDATE worker_profiles SET is_verified=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, verified, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *workerRepository) ListWithFilter(ctx context.Context, filter WorkerFilter) ([]domain.WorkerProfile, error) {
	clauses, args := workerFilterClauses(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM worker_profiles WHERE %s ORDER BY rating DESC, total_reviews DESC LIMIT %d OFFSET %d`,
		workerColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWorkers(rows)
}

func (r *workerRepository) CountWithFilter(ctx context.Context, filter WorkerFilter) (int64, error) {
	clauses, args := workerFilterClauses(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM worker_profiles WHERE %s`, strings.Join(clauses, " AND "))

	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ListGeoCandidates returns verified, available workers with a stored
// location; distance filtering and ranking happen in the service layer.
func (r *workerRepository) ListGeoCandidates(ctx context.Context, category, subcategory *string) ([]domain.WorkerProfile, error) {
	filter := WorkerFilter{Category: category, Subcategory: subcategory, OnlyVerified: true}
	clauses, args := workerFilterClauses(filter)
	clauses = append(clauses, "is_available=TRUE", "longitude IS NOT NULL", "latitude IS NOT NULL")

	query := fmt.Sprintf(`SELECT %s FROM worker_profiles WHERE %s`,
		workerColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWorkers(rows)
}

func workerFilterClauses(filter WorkerFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.Subcategory != nil {
		args = append(args, *filter.Subcategory)
		clauses = append(clauses, fmt.Sprintf("subcategory=$%d", len(args)))
	}
	if filter.OnlyVerified {
		clauses = append(clauses, "is_verified=TRUE")
	}
	return clauses, args
}

func (r *workerRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.WorkerProfile, error) {
	row := r.pool.QueryRow(ctx, query, arg)
	worker, err := scanWorker(row)
	if err != nil {
		return nil, err
	}
	return worker, nil
}

func scanWorker(row pgx.Row) (*domain.WorkerProfile, error) {
	var worker domain.WorkerProfile
	var lng, lat *float64
	if err := row.Scan(
		&worker.ID,
		&worker.UserID,
		&worker.Category,
		&worker.Subcategory,
		&worker.Description,
		&worker.PlanTier,
		&worker.IsVerified,
		&worker.IsAvailable,
		&lng,
		&lat,
		&worker.Rating,
		&worker.TotalReviews,
		&worker.CreatedAt,
		&worker.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if lng != nil && lat != nil {
		worker.Location = &domain.Location{Longitude: *lng, Latitude: *lat}
	}
	return &worker, nil
}

func scanWorkers(rows pgx.Rows) ([]domain.WorkerProfile, error) {
	var result []domain.WorkerProfile
	for rows.Next() {
		worker, err := scanWorker(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *worker)
	}
	return result, rows.Err()
}

func locationColumns(loc *domain.Location) (lng, lat *float64) {
	if loc == nil {
		return nil, nil
	}
	return &loc.Longitude, &loc.Latitude
}
