package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mento-services/marketplace-api/internal/domain"
)

// KycRepository encapsulates KYC record persistence. A user holds at most
// one record; Replace drops any prior submission.
type KycRepository interface {
	Replace(ctx context.Context, record *domain.Kyc) error
	GetByUserID(ctx context.Context, userID string) (*domain.Kyc, error)
	GetByID(ctx context.Context, id string) (*domain.Kyc, error)
	ListByStatus(ctx context.Context, status domain.KycRecordStatus, limit, offset int) ([]domain.Kyc, error)
	UpdateStatus(ctx context.Context, id string, status domain.KycRecordStatus, reason, verifiedBy *string) error
}

type kycRepository struct {
	pool *pgxpool.Pool
}

// NewKycRepository instantiates repository.
func NewKycRepository(pool *pgxpool.Pool) KycRepository {
	return &kycRepository{pool: pool}
}

const kycColumns = `id, user_id, document_type, document_number, document_url, selfie_url, status, rejection_reason, verified_by, created_at, updated_at`

func (r *kycRepository) Replace(ctx context.Context, record *domain.Kyc) error {
	const query = `
        INSERT INTO kyc_records (user_id, document_type, document_number, document_url, selfie_url, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (user_id) DO UPDATE SET
            document_type=EXCLUDED.document_type,
            document_number=EXCLUDED.document_number,
            document_url=EXCLUDED.document_url,
            selfie_url=EXCLUDED.selfie_url,
            status=EXCLUDED.status,
            rejection_reason=NULL,
            verified_by=NULL,
            updated_at=NOW()
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		record.UserID,
		record.DocumentType,
		record.DocumentNumber,
		record.DocumentURL,
		record.SelfieURL,
		record.Status,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
}

func (r *kycRepository) GetByUserID(ctx context.Context, userID string) (*domain.Kyc, error) {
	const query = `SELECT ` + kycColumns + ` FROM kyc_records WHERE user_id=$1`
	return r.fetchSingle(ctx, query, userID)
}

func (r *kycRepository) GetByID(ctx context.Context, id string) (*domain.Kyc, error) {
	const query = `SELECT ` + kycColumns + ` FROM kyc_records WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *kycRepository) ListByStatus(ctx context.Context, status domain.KycRecordStatus, limit, offset int) ([]domain.Kyc, error) {
	const query = `
        SELECT ` + kycColumns + ` FROM kyc_records
        WHERE status=$1
        ORDER BY created_at ASC
        LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.Kyc
	for rows.Next() {
		var record domain.Kyc
		if err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.DocumentType,
			&record.DocumentNumber,
			&record.DocumentURL,
			&record.SelfieURL,
			&record.Status,
			&record.RejectionReason,
			&record.VerifiedBy,
			&record.CreatedAt,
			&record.UpdatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (r *kycRepository) UpdateStatus(ctx context.Context, id string, status domain.KycRecordStatus, reason, verifiedBy *string) error {
	const query = `
        UPDATE kyc_records SET status=$1, rejection_reason=$2, verified_by=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query, status, reason, verifiedBy, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *kycRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Kyc, error) {
	var record domain.Kyc
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&record.ID,
		&record.UserID,
		&record.DocumentType,
		&record.DocumentNumber,
		&record.DocumentURL,
		&record.SelfieURL,
		&record.Status,
		&record.RejectionReason,
		&record.VerifiedBy,
		&record.CreatedAt,
		&record.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &record, nil
}
