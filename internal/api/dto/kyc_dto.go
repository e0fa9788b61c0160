package dto

import (
	"time"

	"github.com/mento-services/marketplace-api/internal/domain"
)

// SubmitKycRequest carries document metadata.
type SubmitKycRequest struct {
	DocumentType   string  `json:"document_type"`
	DocumentNumber string  `json:"document_number"`
	DocumentURL    *string `json:"document_url"`
	SelfieURL      *string `json:"selfie_url"`
}

// ReviewKycRequest is the moderator decision.
type ReviewKycRequest struct {
	Approve bool    `json:"approve"`
	Reason  *string `json:"reason"`
}

// KycResponse is the outward KYC shape.
type KycResponse struct {
	ID              string    `json:"id"`
	DocumentType    string    `json:"document_type"`
	Status          string    `json:"status"`
	RejectionReason *string   `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewKycResponse maps the domain record.
func NewKycResponse(record *domain.Kyc) KycResponse {
	return KycResponse{
		ID:              record.ID,
		DocumentType:    record.DocumentType,
		Status:          string(record.Status),
		RejectionReason: record.RejectionReason,
		CreatedAt:       record.CreatedAt,
		UpdatedAt:       record.UpdatedAt,
	}
}
