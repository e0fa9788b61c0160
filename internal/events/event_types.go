package events

import (
	"time"

	"github.com/mento-services/marketplace-api/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered        EventType = "user_registered"
	EventOtpIssued             EventType = "otp_issued"
	EventKycSubmitted          EventType = "kyc_submitted"
	EventKycReviewed           EventType = "kyc_reviewed"
	EventSubscriptionActivated EventType = "subscription_activated"
	EventWorkerVerified        EventType = "worker_verified"
	EventReviewCreated         EventType = "review_created"
)

// Event represents a domain event emitted by services. UserID may be
// empty for pre-registration events such as OTP issuance.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Mobile string  `json:"mobile"`
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
}

// OtpIssuedPayload payload.
type OtpIssuedPayload struct {
	Mobile string `json:"mobile"`
	Code   string `json:"code"`
}

// KycSubmittedPayload payload.
type KycSubmittedPayload struct {
	KycID        string `json:"kyc_id"`
	DocumentType string `json:"document_type"`
}

// KycReviewedPayload payload.
type KycReviewedPayload struct {
	KycID  string                 `json:"kyc_id"`
	Status domain.KycRecordStatus `json:"status"`
	Reason *string                `json:"reason,omitempty"`
}

// SubscriptionActivatedPayload payload.
type SubscriptionActivatedPayload struct {
	SubscriptionID string                  `json:"subscription_id"`
	Type           domain.SubscriptionType `json:"type"`
	Plan           string                  `json:"plan"`
	ExpiresAt      time.Time               `json:"expires_at"`
}

// WorkerVerifiedPayload payload.
type WorkerVerifiedPayload struct {
	WorkerID string `json:"worker_id"`
	Verified bool   `json:"verified"`
}

// ReviewCreatedPayload payload.
type ReviewCreatedPayload struct {
	ReviewID string `json:"review_id"`
	WorkerID string `json:"worker_id"`
	Rating   int    `json:"rating"`
}
