package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mento-services/marketplace-api/internal/observability"
	"github.com/mento-services/marketplace-api/internal/repository"
)

// SubscriptionSweeper periodically flips overdue active subscriptions to
// Expired. Reads also check expires_at, so the sweep is about keeping the
// stored status honest, not about correctness of the gate.
type SubscriptionSweeper struct {
	subs     repository.SubscriptionRepository
	logger   *zap.Logger
	metrics  *observability.Metrics
	interval time.Duration
}

// NewSubscriptionSweeper builds the sweeper.
func NewSubscriptionSweeper(subs repository.SubscriptionRepository, logger *zap.Logger, metrics *observability.Metrics, interval time.Duration) *SubscriptionSweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &SubscriptionSweeper{subs: subs, logger: logger, metrics: metrics, interval: interval}
}

// Run sweeps until the context is cancelled. Call in a goroutine.
func (s *SubscriptionSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *SubscriptionSweeper) sweep(ctx context.Context) {
	expired, err := s.subs.ExpireOverdue(ctx, time.Now())
	if err != nil {
		s.logger.Warn("subscription sweep failed", zap.Error(err))
		return
	}
	if expired > 0 {
		s.logger.Info("subscriptions expired", zap.Int64("count", expired))
		for i := int64(0); i < expired; i++ {
			s.metrics.RecordEvent("subscription_expired")
		}
	}
}
