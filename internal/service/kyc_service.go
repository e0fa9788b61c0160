package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mento-services/marketplace-api/internal/domain"
	"github.com/mento-services/marketplace-api/internal/events"
	"github.com/mento-services/marketplace-api/internal/repository"
	apperrors "github.com/mento-services/marketplace-api/pkg/util"
)

// SubmitKycInput carries a document submission.
type SubmitKycInput struct {
	DocumentType   string
	DocumentNumber string
	DocumentURL    *string
	SelfieURL      *string
}

// KycService owns the verification workflow. A resubmission replaces the
// previous record; no rejection history is retained.
type KycService struct {
	records    repository.KycRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// KycDependencies encapsulates repo requirements for the KYC service.
type KycDependencies struct {
	KycRepo    repository.KycRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// NewKycService builds the service.
func NewKycService(deps KycDependencies) *KycService {
	return &KycService{records: deps.KycRepo, users: deps.UserRepo, dispatcher: deps.Dispatcher}
}

// Submit records the documents and moves the user to Submitted, which
// grants provisional access through the verification gate. An approved
// user cannot resubmit; only Pending and Rejected may (re)submit.
func (s *KycService) Submit(ctx context.Context, userID string, input SubmitKycInput) (*domain.Kyc, error) {
	if input.DocumentType == "" || input.DocumentNumber == "" {
		return nil, apperrors.NewValidationError("document type and number are required", nil)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	if user.KycStatus == domain.KycStatusApproved {
		return nil, apperrors.NewValidationError("identity is already verified", nil)
	}

	record := &domain.Kyc{
		UserID:         userID,
		DocumentType:   input.DocumentType,
		DocumentNumber: input.DocumentNumber,
		DocumentURL:    input.DocumentURL,
		SelfieURL:      input.SelfieURL,
		Status:         domain.KycRecordSubmitted,
	}
	if err := s.records.Replace(ctx, record); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if err := s.users.SetKycStatus(ctx, userID, domain.KycStatusSubmitted); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventKycSubmitted,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   events.KycSubmittedPayload{KycID: record.ID, DocumentType: record.DocumentType},
	})
	return record, nil
}

// Status returns the caller's current submission, if any.
func (s *KycService) Status(ctx context.Context, userID string) (*domain.Kyc, error) {
	record, err := s.records.GetByUserID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("kyc record", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return record, nil
}

// ListPending returns the oldest unreviewed submissions for the
// moderation queue.
func (s *KycService) ListPending(ctx context.Context, limit, offset int) ([]domain.Kyc, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	records, err := s.records.ListByStatus(ctx, domain.KycRecordSubmitted, limit, offset)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return records, nil
}

// Review is the moderator decision. Approval or rejection lands on both
// the record and the user's gate-facing status.
func (s *KycService) Review(ctx context.Context, kycID, reviewerID string, approve bool, reason *string) (*domain.Kyc, error) {
	record, err := s.records.GetByID(ctx, kycID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("kyc record", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	status := domain.KycRecordApproved
	userStatus := domain.KycStatusApproved
	if !approve {
		status = domain.KycRecordRejected
		userStatus = domain.KycStatusRejected
		if reason == nil || *reason == "" {
			return nil, apperrors.NewValidationError("rejection reason is required", nil)
		}
	} else {
		reason = nil
	}

	if err := s.records.UpdateStatus(ctx, kycID, status, reason, &reviewerID); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if err := s.users.SetKycStatus(ctx, record.UserID, userStatus); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	record.Status = status
	record.RejectionReason = reason
	record.VerifiedBy = &reviewerID

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventKycReviewed,
		UserID:    record.UserID,
		Timestamp: time.Now(),
		Payload:   events.KycReviewedPayload{KycID: record.ID, Status: status, Reason: reason},
	})
	return record, nil
}

func (s *KycService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
