package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mento-services/marketplace-api/internal/domain"
)

// SubscriptionRepository encapsulates subscription persistence. Activation
// is a conditional update from PENDING_PAYMENT so concurrent verifications
// cannot double-activate, and the partial unique index on (user_id, type)
// backs the one-active invariant.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *domain.Subscription) error
	GetByID(ctx context.Context, id string) (*domain.Subscription, error)
	GetOwned(ctx context.Context, id, userID string, subType domain.SubscriptionType) (*domain.Subscription, error)
	GetActive(ctx context.Context, userID string, subType domain.SubscriptionType, now time.Time) (*domain.Subscription, error)
	Activate(ctx context.Context, id, userID string, subType domain.SubscriptionType, paymentID string, startsAt, expiresAt time.Time) error
	Cancel(ctx context.Context, id, userID string) error
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

type subscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepository instantiates repository.
func NewSubscriptionRepository(pool *pgxpool.Pool) SubscriptionRepository {
	return &subscriptionRepository{pool: pool}
}

const subscriptionColumns = `id, user_id, type, plan, plan_tier, amount_minor_units, currency, status, gateway_order_id, gateway_payment_id, starts_at, expires_at, created_at, updated_at`

func (r *subscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) error {
	const query = `
        INSERT INTO subscriptions (user_id, type, plan, plan_tier, amount_minor_units, currency, status, gateway_order_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		sub.UserID,
		sub.Type,
		sub.Plan,
		sub.PlanTier,
		sub.AmountMinorUnits,
		sub.Currency,
		sub.Status,
		sub.GatewayOrderID,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
}

func (r *subscriptionRepository) GetByID(ctx context.Context, id string) (*domain.Subscription, error) {
	const query = `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *subscriptionRepository) GetOwned(ctx context.Context, id, userID string, subType domain.SubscriptionType) (*domain.Subscription, error) {
	const query = `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id=$1 AND user_id=$2 AND type=$3`
	return r.fetchSingle(ctx, query, id, userID, subType)
}

func (r *subscriptionRepository) GetActive(ctx context.Context, userID string, subType domain.SubscriptionType, now time.Time) (*domain.Subscription, error) {
	const query = `
        SELECT ` + subscriptionColumns + `
        FROM subscriptions
        WHERE user_id=$1 AND type=$2 AND status=$3 AND (expires_at IS NULL OR expires_at > $4)`
	return r.fetchSingle(ctx, query, userID, subType, domain.SubscriptionActive, now)
}

func (r *subscriptionRepository) Activate(ctx context.Context, id, userID string, subType domain.SubscriptionType, paymentID string, startsAt, expiresAt time.Time) error {
	const query = `
        UPDATE subscriptions
        SET status=$1, gateway_payment_id=$2, starts_at=$3, expires_at=$4, updated_at=NOW()
        WHERE id=$5 AND user_id=$6 AND type=$7 AND status=$8`
	cmd, err := r.pool.Exec(ctx, query,
		domain.SubscriptionActive,
		paymentID,
		startsAt,
		expiresAt,
		id,
		userID,
		subType,
		domain.SubscriptionPendingPayment,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *subscriptionRepository) Cancel(ctx context.Context, id, userID string) error {
	const query = `
        UPDATE subscriptions SET status=$1, updated_at=NOW()
        WHERE id=$2 AND user_id=$3 AND status IN ($4,$5)`
	cmd, err := r.pool.Exec(ctx, query,
		domain.SubscriptionCancelled,
		id,
		userID,
		domain.SubscriptionActive,
		domain.SubscriptionPendingPayment,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *subscriptionRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	const query = `
        UPDATE subscriptions SET status=$1, updated_at=NOW()
        WHERE status=$2 AND expires_at IS NOT NULL AND expires_at <= $3`
	cmd, err := r.pool.Exec(ctx, query, domain.SubscriptionExpired, domain.SubscriptionActive, now)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *subscriptionRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Subscription, error) {
	var sub domain.Subscription
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&sub.ID,
		&sub.UserID,
		&sub.Type,
		&sub.Plan,
		&sub.PlanTier,
		&sub.AmountMinorUnits,
		&sub.Currency,
		&sub.Status,
		&sub.GatewayOrderID,
		&sub.GatewayPaymentID,
		&sub.StartsAt,
		&sub.ExpiresAt,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &sub, nil
}
