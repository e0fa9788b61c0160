package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mento-services/marketplace-api/internal/domain"
)

// JobSeekerFilter captures job-seeker listing parameters.
type JobSeekerFilter struct {
	PreferredCity *string
	OnlyVerified  bool
	OnlyAvailable bool
	Limit         int
	Offset        int
}

// JobSeekerRepository encapsulates job-seeker profile persistence.
type JobSeekerRepository interface {
	Create(ctx context.Context, profile *domain.JobSeekerProfile) error
	Update(ctx context.Context, profile *domain.JobSeekerProfile) error
	GetByID(ctx context.Context, id string) (*domain.JobSeekerProfile, error)
	GetByUserID(ctx context.Context, userID string) (*domain.JobSeekerProfile, error)
	SetVerified(ctx context.Context, id string, verified bool) error
	ListWithFilter(ctx context.Context, filter JobSeekerFilter) ([]domain.JobSeekerProfile, error)
	CountWithFilter(ctx context.Context, filter JobSeekerFilter) (int64, error)
}

type jobSeekerRepository struct {
	pool *pgxpool.Pool
}

// NewJobSeekerRepository instantiates repository.
func NewJobSeekerRepository(pool *pgxpool.Pool) JobSeekerRepository {
	return &jobSeekerRepository{pool: pool}
}

const jobSeekerColumns = `id, user_id, skills, experience_yrs, preferred_city, expected_salary, resume_url, plan_tier, is_verified, is_available, created_at, updated_at`

func (r *jobSeekerRepository) Create(ctx context.Context, profile *domain.JobSeekerProfile) error {
	const query = `
        INSERT INTO job_seeker_profiles (user_id, skills, experience_yrs, preferred_city, expected_salary, resume_url, plan_tier, is_available)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, is_verified, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		profile.UserID,
		profile.Skills,
		profile.ExperienceYrs,
		profile.PreferredCity,
		profile.ExpectedSalary,
		profile.ResumeURL,
		profile.PlanTier,
		profile.IsAvailable,
	).Scan(&profile.ID, &profile.IsVerified, &profile.CreatedAt, &profile.UpdatedAt)
}

func (r *jobSeekerRepository) Update(ctx context.Context, profile *domain.JobSeekerProfile) error {
	const query = `
        UPDATE job_seeker_profiles SET skills=$1, experience_yrs=$2, preferred_city=$3,
            expected_salary=$4, resume_url=$5, plan_tier=$6, is_available=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		profile.Skills,
		profile.ExperienceYrs,
		profile.PreferredCity,
		profile.ExpectedSalary,
		profile.ResumeURL,
		profile.PlanTier,
		profile.IsAvailable,
		profile.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *jobSeekerRepository) GetByID(ctx context.Context, id string) (*domain.JobSeekerProfile, error) {
	const query = `SELECT ` + jobSeekerColumns + ` FROM job_seeker_profiles WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *jobSeekerRepository) GetByUserID(ctx context.Context, userID string) (*domain.JobSeekerProfile, error) {
	const query = `SELECT ` + jobSeekerColumns + ` FROM job_seeker_profiles WHERE user_id=$1`
	return r.fetchSingle(ctx, query, userID)
}

func (r *jobSeekerRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	const query = `UPDATE job_seeker_profiles SET is_verified=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, verified, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *jobSeekerRepository) ListWithFilter(ctx context.Context, filter JobSeekerFilter) ([]domain.JobSeekerProfile, error) {
	clauses, args := jobSeekerFilterClauses(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM job_seeker_profiles WHERE %s ORDER BY plan_tier DESC, created_at DESC LIMIT %d OFFSET %d`,
		jobSeekerColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.JobSeekerProfile
	for rows.Next() {
		var profile domain.JobSeekerProfile
		if err := scanJobSeeker(rows, &profile); err != nil {
			return nil, err
		}
		result = append(result, profile)
	}
	return result, rows.Err()
}

func (r *jobSeekerRepository) CountWithFilter(ctx context.Context, filter JobSeekerFilter) (int64, error) {
	clauses, args := jobSeekerFilterClauses(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM job_seeker_profiles WHERE %s`, strings.Join(clauses, " AND "))

	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func jobSeekerFilterClauses(filter JobSeekerFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.PreferredCity != nil {
		args = append(args, *filter.PreferredCity)
		clauses = append(clauses, fmt.Sprintf("preferred_city=$%d", len(args)))
	}
	if filter.OnlyVerified {
		clauses = append(clauses, "is_verified=TRUE")
	}
	if filter.OnlyAvailable {
		clauses = append(clauses, "is_available=TRUE")
	}
	return clauses, args
}

func (r *jobSeekerRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.JobSeekerProfile, error) {
	var profile domain.JobSeekerProfile
	if err := scanJobSeeker(r.pool.QueryRow(ctx, query, arg), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func scanJobSeeker(row pgx.Row, profile *domain.JobSeekerProfile) error {
	return row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Skills,
		&profile.ExperienceYrs,
		&profile.PreferredCity,
		&profile.ExpectedSalary,
		&profile.ResumeURL,
		&profile.PlanTier,
		&profile.IsVerified,
		&profile.IsAvailable,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
}
