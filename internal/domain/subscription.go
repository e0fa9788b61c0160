package domain

import (
	"fmt"
	"time"
)

// SubscriptionType selects which profile kind a subscription entitles.
type SubscriptionType string

const (
	SubscriptionTypeWorker    SubscriptionType = "WORKER"
	SubscriptionTypeJobSeeker SubscriptionType = "JOB_SEEKER"
)

// SubscriptionStatus enumerates the payment lifecycle. PendingPayment is a
// real state: a created-but-unpaid subscription is not a cancelled one.
type SubscriptionStatus string

const (
	SubscriptionPendingPayment SubscriptionStatus = "PENDING_PAYMENT"
	SubscriptionActive         SubscriptionStatus = "ACTIVE"
	SubscriptionExpired        SubscriptionStatus = "EXPIRED"
	SubscriptionCancelled      SubscriptionStatus = "CANCELLED"
)

// Subscription ties a user to a paid plan through the gateway order flow.
type Subscription struct {
	ID               string
	UserID           string
	Type             SubscriptionType
	Plan             string
	PlanTier         int
	AmountMinorUnits int64
	Currency         string
	Status           SubscriptionStatus
	GatewayOrderID   *string
	GatewayPaymentID *string
	StartsAt         *time.Time
	ExpiresAt        *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Plan describes a purchasable tier for a subscription type.
type Plan struct {
	Name             string
	Type             SubscriptionType
	Tier             int
	AmountMinorUnits int64
}

// Subscription duration is fixed at one year from payment verification.
const SubscriptionDuration = 365 * 24 * time.Hour

var plans = []Plan{
	{Name: "silver", Type: SubscriptionTypeWorker, Tier: 1, AmountMinorUnits: 100},
	{Name: "gold", Type: SubscriptionTypeWorker, Tier: 2, AmountMinorUnits: 200},
	{Name: "basic", Type: SubscriptionTypeJobSeeker, Tier: 1, AmountMinorUnits: 50},
	{Name: "premium", Type: SubscriptionTypeJobSeeker, Tier: 2, AmountMinorUnits: 150},
}

// ResolvePlan looks up a plan by subscription type and name.
func ResolvePlan(subType SubscriptionType, name string) (Plan, error) {
	for _, p := range plans {
		if p.Type == subType && p.Name == name {
			return p, nil
		}
	}
	return Plan{}, fmt.Errorf("unknown plan %q for type %s", name, subType)
}

// PlansFor returns the catalog for one subscription type.
func PlansFor(subType SubscriptionType) []Plan {
	var out []Plan
	for _, p := range plans {
		if p.Type == subType {
			out = append(out, p)
		}
	}
	return out
}
