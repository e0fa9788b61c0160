package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mento-services/marketplace-api/internal/domain"
)

// JobFilter captures job listing parameters.
type JobFilter struct {
	Category    *string
	Subcategory *string
	City        *string
	Statuses    []domain.JobStatus
	PostedBy    *string
	Limit       int
	Offset      int
}

// JobRepository encapsulates job persistence.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) error
	Update(ctx context.Context, job *domain.Job) error
	GetByID(ctx context.Context, id string) (*domain.Job, error)
	ListWithFilter(ctx context.Context, filter JobFilter) ([]domain.Job, error)
	CountWithFilter(ctx context.Context, filter JobFilter) (int64, error)
	AddApplicant(ctx context.Context, id, userID string) error
	IncrementViews(ctx context.Context, id string) error
	SoftDelete(ctx context.Context, id, postedBy string) error
}

type jobRepository struct {
	pool *pgxpool.Pool
}

// NewJobRepository instantiates repository.
func NewJobRepository(pool *pgxpool.Pool) JobRepository {
	return &jobRepository{pool: pool}
}

const jobColumns = `id, posted_by, title, description, category, subcategory, city, budget_minor, status, is_active, applicants, views, created_at, updated_at`

func (r *jobRepository) Create(ctx context.Context, job *domain.Job) error {
	const query = `
        INSERT INTO jobs (posted_by, title, description, category, subcategory, city, budget_minor, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, is_active, applicants, views, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		job.PostedBy,
		job.Title,
		job.Description,
		job.Category,
		job.Subcategory,
		job.City,
		job.BudgetMinor,
		job.Status,
	).Scan(&job.ID, &job.IsActive, &job.Applicants, &job.Views, &job.CreatedAt, &job.UpdatedAt)
}

func (r *jobRepository) Update(ctx context.Context, job *domain.Job) error {
	const query = `
        UPDATE jobs SET title=$1, description=$2, category=$3, subcategory=$4, city=$5,
            budget_minor=$6, status=$7, is_active=$8, updated_at=NOW()
        WHERE id=$9`
	cmd, err := r.pool.Exec(ctx, query,
		job.Title,
		job.Description,
		job.Category,
		job.Subcategory,
		job.City,
		job.BudgetMinor,
		job.Status,
		job.IsActive,
		job.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *jobRepository) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	const query = `SELECT ` + jobColumns + ` FROM jobs WHERE id=$1 AND is_active=TRUE`
	return r.fetchSingle(ctx, query, id)
}

func (r *jobRepository) ListWithFilter(ctx context.Context, filter JobFilter) ([]domain.Job, error) {
	clauses, args := jobFilterClauses(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		jobColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Job
	for rows.Next() {
		var job domain.Job
		if err := scanJob(rows, &job); err != nil {
			return nil, err
		}
		result = append(result, job)
	}
	return result, rows.Err()
}

func (r *jobRepository) CountWithFilter(ctx context.Context, filter JobFilter) (int64, error) {
	clauses, args := jobFilterClauses(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM jobs WHERE %s`, strings.Join(clauses, " AND "))

	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// AddApplicant appends the user once; applying twice is a no-op reported
// as pgx.ErrNoRows.
func (r *jobRepository) AddApplicant(ctx context.Context, id, userID string) error {
	const query = `
        UPDATE jobs SET applicants = array_append(applicants, $1), updated_at=NOW()
        WHERE id=$2 AND is_active=TRUE AND NOT ($1 = ANY(applicants))`
	cmd, err := r.pool.Exec(ctx, query, userID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *jobRepository) IncrementViews(ctx context.Context, id string) error {
	const query = `UPDATE jobs SET views = views + 1 WHERE id=$1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *jobRepository) SoftDelete(ctx context.Context, id, postedBy string) error {
	const query = `UPDATE jobs SET is_active=FALSE, updated_at=NOW() WHERE id=$1 AND posted_by=$2 AND is_active=TRUE`
	cmd, err := r.pool.Exec(ctx, query, id, postedBy)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func jobFilterClauses(filter JobFilter) ([]string, []any) {
	clauses := []string{"is_active=TRUE"}
	args := []any{}

	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.Subcategory != nil {
		args = append(args, *filter.Subcategory)
		clauses = append(clauses, fmt.Sprintf("subcategory=$%d", len(args)))
	}
	if filter.City != nil {
		args = append(args, *filter.City)
		clauses = append(clauses, fmt.Sprintf("city=$%d", len(args)))
	}
	if filter.PostedBy != nil {
		args = append(args, *filter.PostedBy)
		clauses = append(clauses, fmt.Sprintf("posted_by=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	return clauses, args
}

func (r *jobRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Job, error) {
	var job domain.Job
	if err := scanJob(r.pool.QueryRow(ctx, query, arg), &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func scanJob(row pgx.Row, job *domain.Job) error {
	return row.Scan(
		&job.ID,
		&job.PostedBy,
		&job.Title,
		&job.Description,
		&job.Category,
		&job.Subcategory,
		&job.City,
		&job.BudgetMinor,
		&job.Status,
		&job.IsActive,
		&job.Applicants,
		&job.Views,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
}
