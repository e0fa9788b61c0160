package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mento-services/marketplace-api/internal/domain"
)

// UserRepository encapsulates user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByMobile(ctx context.Context, mobile string) (*domain.User, error)
	SetKycStatus(ctx context.Context, id string, status domain.KycStatus) error
	UpdateFCMToken(ctx context.Context, id, token string) error
	Deactivate(ctx context.Context, id string) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates repository.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, mobile, name, email, pincode, fcm_token, role, kyc_status, active, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (mobile, name, email, pincode, role)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, kyc_status, active, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		user.Mobile,
		user.Name,
		user.Email,
		user.Pincode,
		user.Role,
	).Scan(&user.ID, &user.KycStatus, &user.Active, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET name=$1, email=$2, pincode=$3, fcm_token=$4, role=$5,
            kyc_status=$6, active=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		user.Name,
		user.Email,
		user.Pincode,
		user.FCMToken,
		user.Role,
		user.KycStatus,
		user.Active,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByMobile(ctx context.Context, mobile string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE mobile=$1`
	return r.fetchSingle(ctx, query, mobile)
}

func (r *userRepository) SetKycStatus(ctx context.Context, id string, status domain.KycStatus) error {
	const query = `UPDATE users SET kyc_status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) UpdateFCMToken(ctx context.Context, id, token string) error {
	const query = `UPDATE users SET fcm_token=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, token, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE users SET active=FALSE, updated_at=NOW() WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Mobile,
		&user.Name,
		&user.Email,
		&user.Pincode,
		&user.FCMToken,
		&user.Role,
		&user.KycStatus,
		&user.Active,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
