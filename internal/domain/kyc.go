package domain

import "time"

// KycRecordStatus tracks a single submission through review.
type KycRecordStatus string

const (
	KycRecordPending     KycRecordStatus = "PENDING"
	KycRecordSubmitted   KycRecordStatus = "SUBMITTED"
	KycRecordUnderReview KycRecordStatus = "UNDER_REVIEW"
	KycRecordApproved    KycRecordStatus = "APPROVED"
	KycRecordRejected    KycRecordStatus = "REJECTED"
)

// Kyc holds the latest identity-verification submission for a user.
// Resubmission after a rejection replaces the previous record.
type Kyc struct {
	ID              string
	UserID          string
	DocumentType    string
	DocumentNumber  string
	DocumentURL     *string
	SelfieURL       *string
	Status          KycRecordStatus
	RejectionReason *string
	VerifiedBy      *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
