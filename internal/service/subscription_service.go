package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mento-services/marketplace-api/internal/domain"
	"github.com/mento-services/marketplace-api/internal/events"
	"github.com/mento-services/marketplace-api/internal/gateway"
	"github.com/mento-services/marketplace-api/internal/observability"
	"github.com/mento-services/marketplace-api/internal/repository"
	apperrors "github.com/mento-services/marketplace-api/pkg/util"
)

// OrderCreator is the narrow payment-gateway contract this service needs.
type OrderCreator interface {
	CreateOrder(ctx context.Context, amountMinorUnits int64, receipt string) (*gateway.Order, error)
}

// VerifyPaymentInput carries the gateway callback parameters the client
// relays after completing checkout.
type VerifyPaymentInput struct {
	SubscriptionID string
	OrderID        string
	PaymentID      string
	Signature      string
}

// SubscriptionService owns the pending-payment to active lifecycle.
type SubscriptionService struct {
	subs          repository.SubscriptionRepository
	orders        OrderCreator
	signingSecret string
	currency      string
	dispatcher    events.Dispatcher
	metrics       *observability.Metrics
	now           func() time.Time
}

// SubscriptionDependencies encapsulates collaborator requirements.
type SubscriptionDependencies struct {
	SubscriptionRepo repository.SubscriptionRepository
	Orders           OrderCreator
	SigningSecret    string
	Currency         string
	Dispatcher       events.Dispatcher
	Metrics          *observability.Metrics
}

// NewSubscriptionService builds the service.
func NewSubscriptionService(deps SubscriptionDependencies) *SubscriptionService {
	return &SubscriptionService{
		subs:          deps.SubscriptionRepo,
		orders:        deps.Orders,
		signingSecret: deps.SigningSecret,
		currency:      deps.Currency,
		dispatcher:    deps.Dispatcher,
		metrics:       deps.Metrics,
		now:           time.Now,
	}
}

// Create resolves the plan, refuses a second active subscription of the
// same type, places a gateway order and persists the subscription in
// PendingPayment until the payment is verified.
func (s *SubscriptionService) Create(ctx context.Context, userID string, subType domain.SubscriptionType, planName string) (*domain.Subscription, *gateway.Order, error) {
	plan, err := domain.ResolvePlan(subType, planName)
	if err != nil {
		return nil, nil, apperrors.NewValidationError("unknown plan", map[string]any{"plan": planName})
	}

	if _, err := s.subs.GetActive(ctx, userID, subType, s.now()); err == nil {
		return nil, nil, apperrors.NewValidationError("an active subscription of this type already exists", nil)
	} else if err != pgx.ErrNoRows {
		return nil, nil, apperrors.NewInternalError(err)
	}

	receipt := uuid.NewString()
	order, err := s.orders.CreateOrder(ctx, plan.AmountMinorUnits, receipt)
	if err != nil {
		return nil, nil, apperrors.NewGatewayError(err)
	}

	sub := &domain.Subscription{
		UserID:           userID,
		Type:             subType,
		Plan:             plan.Name,
		PlanTier:         plan.Tier,
		AmountMinorUnits: plan.AmountMinorUnits,
		Currency:         s.currency,
		Status:           domain.SubscriptionPendingPayment,
		GatewayOrderID:   &order.ID,
	}
	if err := s.subs.Create(ctx, sub); err != nil {
		return nil, nil, apperrors.NewInternalError(err)
	}
	return sub, order, nil
}

// VerifyPayment recomputes the gateway signature over order and payment
// id and, on a match, promotes the caller-owned subscription to Active
// for one year. An unowned or non-pending subscription reads as NotFound.
func (s *SubscriptionService) VerifyPayment(ctx context.Context, userID string, subType domain.SubscriptionType, input VerifyPaymentInput) (*domain.Subscription, error) {
	if input.OrderID == "" || input.PaymentID == "" || input.Signature == "" {
		return nil, apperrors.NewValidationError("order id, payment id and signature are required", nil)
	}

	sub, err := s.subs.GetOwned(ctx, input.SubscriptionID, userID, subType)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("subscription", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	if sub.GatewayOrderID == nil || *sub.GatewayOrderID != input.OrderID {
		return nil, apperrors.NewNotFound("subscription", nil)
	}

	if !gateway.VerifySignature(s.signingSecret, input.OrderID, input.PaymentID, input.Signature) {
		return nil, apperrors.NewDomainError("INVALID_SIGNATURE", "payment signature verification failed", 400, nil)
	}

	startsAt := s.now()
	expiresAt := startsAt.Add(domain.SubscriptionDuration)
	if err := s.subs.Activate(ctx, sub.ID, userID, subType, input.PaymentID, startsAt, expiresAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("subscription", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	sub.Status = domain.SubscriptionActive
	sub.GatewayPaymentID = &input.PaymentID
	sub.StartsAt = &startsAt
	sub.ExpiresAt = &expiresAt

	s.metrics.RecordEvent("payment_verified")
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventSubscriptionActivated,
			UserID:    userID,
			Timestamp: s.now(),
			Payload: events.SubscriptionActivatedPayload{
				SubscriptionID: sub.ID,
				Type:           sub.Type,
				Plan:           sub.Plan,
				ExpiresAt:      expiresAt,
			},
		})
	}
	return sub, nil
}

// Status returns the single active subscription for (user, type), or nil
// when none exists. Expiry is checked at read time, not just by the
// background sweep.
func (s *SubscriptionService) Status(ctx context.Context, userID string, subType domain.SubscriptionType) (*domain.Subscription, error) {
	sub, err := s.subs.GetActive(ctx, userID, subType, s.now())
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, apperrors.NewInternalError(err)
	}
	return sub, nil
}

// Cancel marks a caller-owned subscription cancelled.
func (s *SubscriptionService) Cancel(ctx context.Context, userID, subscriptionID string) error {
	if err := s.subs.Cancel(ctx, subscriptionID, userID); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("subscription", nil)
		}
		return apperrors.NewInternalError(err)
	}
	return nil
}

// Plans lists the purchasable plans for a subscription type.
func (s *SubscriptionService) Plans(subType domain.SubscriptionType) []domain.Plan {
	return domain.PlansFor(subType)
}

// RequireActive loads the active subscription of the given type or fails
// with a SubscriptionRequired error. Used by the profile-creation flows.
func (s *SubscriptionService) RequireActive(ctx context.Context, userID string, subType domain.SubscriptionType) (*domain.Subscription, error) {
	sub, err := s.Status(ctx, userID, subType)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, apperrors.NewSubscriptionRequired(string(subType))
	}
	return sub, nil
}
