package dto

import (
	"time"

	"github.com/mento-services/marketplace-api/internal/domain"
	"github.com/mento-services/marketplace-api/internal/gateway"
)

// CreateSubscriptionRequest starts the checkout flow.
type CreateSubscriptionRequest struct {
	Type string `json:"type"`
	Plan string `json:"plan"`
}

// VerifyPaymentRequest relays the gateway checkout result.
type VerifyPaymentRequest struct {
	SubscriptionID string `json:"subscription_id"`
	Type           string `json:"type"`
	OrderID        string `json:"order_id"`
	PaymentID      string `json:"payment_id"`
	Signature      string `json:"signature"`
}

// SubscriptionResponse is the outward subscription shape.
type SubscriptionResponse struct {
	ID               string     `json:"id"`
	Type             string     `json:"type"`
	Plan             string     `json:"plan"`
	PlanTier         int        `json:"plan_tier"`
	AmountMinorUnits int64      `json:"amount_minor_units"`
	Currency         string     `json:"currency"`
	Status           string     `json:"status"`
	StartsAt         *time.Time `json:"starts_at,omitempty"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
}

// OrderResponse is the gateway order the client completes payment on.
type OrderResponse struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// NewSubscriptionResponse maps the domain subscription.
func NewSubscriptionResponse(sub *domain.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:               sub.ID,
		Type:             string(sub.Type),
		Plan:             sub.Plan,
		PlanTier:         sub.PlanTier,
		AmountMinorUnits: sub.AmountMinorUnits,
		Currency:         sub.Currency,
		Status:           string(sub.Status),
		StartsAt:         sub.StartsAt,
		ExpiresAt:        sub.ExpiresAt,
	}
}

// NewOrderResponse maps the gateway order.
func NewOrderResponse(order *gateway.Order) OrderResponse {
	return OrderResponse{OrderID: order.ID, Amount: order.Amount, Currency: order.Currency}
}
