package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mento-services/marketplace-api/internal/domain"
	apperrors "github.com/mento-services/marketplace-api/pkg/util"
)

type fakeKycRepo struct {
	byUser map[string]*domain.Kyc
	nextID int
}

func newFakeKycRepo() *fakeKycRepo {
	return &fakeKycRepo{byUser: map[string]*domain.Kyc{}}
}

func (f *fakeKycRepo) Replace(_ context.Context, record *domain.Kyc) error {
	if existing, ok := f.byUser[record.UserID]; ok {
		record.ID = existing.ID
	} else {
		f.nextID++
		record.ID = fmt.Sprintf("k%d", f.nextID)
	}
	record.RejectionReason = nil
	record.VerifiedBy = nil
	stored := *record
	f.byUser[record.UserID] = &stored
	return nil
}

func (f *fakeKycRepo) GetByUserID(_ context.Context, userID string) (*domain.Kyc, error) {
	record, ok := f.byUser[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *record
	return &copied, nil
}

func (f *fakeKycRepo) GetByID(_ context.Context, id string) (*domain.Kyc, error) {
	for _, record := range f.byUser {
		if record.ID == id {
			copied := *record
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeKycRepo) ListByStatus(_ context.Context, status domain.KycRecordStatus, limit, offset int) ([]domain.Kyc, error) {
	var out []domain.Kyc
	for _, record := range f.byUser {
		if record.Status == status {
			out = append(out, *record)
		}
	}
	return out, nil
}

func (f *fakeKycRepo) UpdateStatus(_ context.Context, id string, status domain.KycRecordStatus, reason, verifiedBy *string) error {
	for _, record := range f.byUser {
		if record.ID == id {
			record.Status = status
			record.RejectionReason = reason
			record.VerifiedBy = verifiedBy
			return nil
		}
	}
	return pgx.ErrNoRows
}

func newKycServiceForTest(t *testing.T) (*KycService, *fakeUserStore, *domain.User) {
	t.Helper()
	users := newFakeUserStore()
	user := &domain.User{Mobile: "9876543210"}
	require.NoError(t, users.Create(context.Background(), user))
	svc := NewKycService(KycDependencies{KycRepo: newFakeKycRepo(), UserRepo: users})
	return svc, users, user
}

func submitDocuments(t *testing.T, svc *KycService, userID string) *domain.Kyc {
	t.Helper()
	record, err := svc.Submit(context.Background(), userID, SubmitKycInput{
		DocumentType:   "aadhaar",
		DocumentNumber: "1234-5678-9012",
	})
	require.NoError(t, err)
	return record
}

func TestKycSubmitMarksUserSubmitted(t *testing.T) {
	svc, users, user := newKycServiceForTest(t)
	ctx := context.Background()

	record := submitDocuments(t, svc, user.ID)
	assert.Equal(t, domain.KycRecordSubmitted, record.Status)

	stored, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.KycStatusSubmitted, stored.KycStatus)
}

func TestKycSubmitValidatesDocuments(t *testing.T) {
	svc, _, user := newKycServiceForTest(t)

	_, err := svc.Submit(context.Background(), user.ID, SubmitKycInput{DocumentType: "aadhaar"})
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
}

func TestKycSubmitRejectedWhileApproved(t *testing.T) {
	svc, users, user := newKycServiceForTest(t)
	ctx := context.Background()

	submitDocuments(t, svc, user.ID)
	require.NoError(t, users.SetKycStatus(ctx, user.ID, domain.KycStatusApproved))

	_, err := svc.Submit(ctx, user.ID, SubmitKycInput{
		DocumentType:   "aadhaar",
		DocumentNumber: "9999-9999-9999",
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)

	stored, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.KycStatusApproved, stored.KycStatus, "approved status must not be downgraded")
}

func TestKycResubmissionAfterRejection(t *testing.T) {
	svc, users, user := newKycServiceForTest(t)
	ctx := context.Background()

	first := submitDocuments(t, svc, user.ID)

	reason := "document illegible"
	_, err := svc.Review(ctx, first.ID, "admin-1", false, &reason)
	require.NoError(t, err)

	stored, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, domain.KycStatusRejected, stored.KycStatus)

	second := submitDocuments(t, svc, user.ID)
	assert.Equal(t, domain.KycRecordSubmitted, second.Status)
	assert.Nil(t, second.RejectionReason)

	stored, err = users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.KycStatusSubmitted, stored.KycStatus)
}

func TestKycReviewRequiresRejectionReason(t *testing.T) {
	svc, _, user := newKycServiceForTest(t)
	record := submitDocuments(t, svc, user.ID)

	_, err := svc.Review(context.Background(), record.ID, "admin-1", false, nil)
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
}

func TestKycReviewApproves(t *testing.T) {
	svc, users, user := newKycServiceForTest(t)
	ctx := context.Background()
	record := submitDocuments(t, svc, user.ID)

	reviewed, err := svc.Review(ctx, record.ID, "admin-1", true, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.KycRecordApproved, reviewed.Status)

	stored, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.KycStatusApproved, stored.KycStatus)
}
