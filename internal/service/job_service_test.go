package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mento-services/marketplace-api/internal/domain"
	"github.com/mento-services/marketplace-api/internal/repository"
	apperrors "github.com/mento-services/marketplace-api/pkg/util"
)

type fakeJobRepo struct {
	byID   map[string]*domain.Job
	nextID int
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{byID: map[string]*domain.Job{}}
}

func (f *fakeJobRepo) Create(_ context.Context, job *domain.Job) error {
	f.nextID++
	job.ID = fmt.Sprintf("j%d", f.nextID)
	job.IsActive = true
	stored := *job
	f.byID[job.ID] = &stored
	return nil
}

func (f *fakeJobRepo) Update(_ context.Context, job *domain.Job) error {
	if _, ok := f.byID[job.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *job
	f.byID[job.ID] = &stored
	return nil
}

func (f *fakeJobRepo) GetByID(_ context.Context, id string) (*domain.Job, error) {
	job, ok := f.byID[id]
	if !ok || !job.IsActive {
		return nil, pgx.ErrNoRows
	}
	copied := *job
	return &copied, nil
}

func (f *fakeJobRepo) ListWithFilter(_ context.Context, _ repository.JobFilter) ([]domain.Job, error) {
	var out []domain.Job
	for _, job := range f.byID {
		if job.IsActive {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (f *fakeJobRepo) CountWithFilter(_ context.Context, _ repository.JobFilter) (int64, error) {
	var count int64
	for _, job := range f.byID {
		if job.IsActive {
			count++
		}
	}
	return count, nil
}

func (f *fakeJobRepo) AddApplicant(_ context.Context, id, userID string) error {
	job, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	for _, applicant := range job.Applicants {
		if applicant == userID {
			return pgx.ErrNoRows
		}
	}
	job.Applicants = append(job.Applicants, userID)
	return nil
}

func (f *fakeJobRepo) IncrementViews(_ context.Context, id string) error {
	job, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	job.Views++
	return nil
}

func (f *fakeJobRepo) SoftDelete(_ context.Context, id, postedBy string) error {
	job, ok := f.byID[id]
	if !ok || job.PostedBy != postedBy || !job.IsActive {
		return pgx.ErrNoRows
	}
	job.IsActive = false
	return nil
}

func createTestJob(t *testing.T, svc *JobService, owner string) *domain.Job {
	t.Helper()
	job, err := svc.Create(context.Background(), owner, CreateJobInput{
		Title:       "Fix kitchen sink",
		Description: "Leaking tap, needs replacement",
		Category:    "plumbing",
	})
	require.NoError(t, err)
	return job
}

func TestJobLifecycleTransitions(t *testing.T) {
	svc := NewJobService(newFakeJobRepo())
	ctx := context.Background()
	job := createTestJob(t, svc, "owner")

	updated, err := svc.UpdateStatus(ctx, "owner", job.ID, domain.JobStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusInProgress, updated.Status)

	updated, err = svc.UpdateStatus(ctx, "owner", job.ID, domain.JobStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, updated.Status)
}

func TestJobRejectsIllegalTransitions(t *testing.T) {
	svc := NewJobService(newFakeJobRepo())
	ctx := context.Background()

	t.Run("open to completed", func(t *testing.T) {
		job := createTestJob(t, svc, "owner")
		_, err := svc.UpdateStatus(ctx, "owner", job.ID, domain.JobStatusCompleted)
		require.Error(t, err)
		assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
	})

	t.Run("completed is terminal", func(t *testing.T) {
		job := createTestJob(t, svc, "owner")
		_, err := svc.UpdateStatus(ctx, "owner", job.ID, domain.JobStatusInProgress)
		require.NoError(t, err)
		_, err = svc.UpdateStatus(ctx, "owner", job.ID, domain.JobStatusCompleted)
		require.NoError(t, err)

		_, err = svc.UpdateStatus(ctx, "owner", job.ID, domain.JobStatusOpen)
		require.Error(t, err)
		assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		job := createTestJob(t, svc, "owner")
		_, err := svc.UpdateStatus(ctx, "owner", job.ID, domain.JobStatusCancelled)
		require.NoError(t, err)

		_, err = svc.UpdateStatus(ctx, "owner", job.ID, domain.JobStatusInProgress)
		require.Error(t, err)
	})
}

func TestJobStatusHidesUnownedPosting(t *testing.T) {
	svc := NewJobService(newFakeJobRepo())
	job := createTestJob(t, svc, "owner")

	_, err := svc.UpdateStatus(context.Background(), "intruder", job.ID, domain.JobStatusInProgress)
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.ToDomainError(err).HTTPStatus)
}

func TestJobApplyRules(t *testing.T) {
	svc := NewJobService(newFakeJobRepo())
	ctx := context.Background()
	job := createTestJob(t, svc, "owner")

	require.NoError(t, svc.Apply(ctx, "worker-1", job.ID))

	t.Run("duplicate application", func(t *testing.T) {
		err := svc.Apply(ctx, "worker-1", job.ID)
		require.Error(t, err)
		assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
	})

	t.Run("own job", func(t *testing.T) {
		err := svc.Apply(ctx, "owner", job.ID)
		require.Error(t, err)
		assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
	})

	t.Run("closed job", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, "owner", job.ID, domain.JobStatusInProgress)
		require.NoError(t, err)

		err = svc.Apply(ctx, "worker-2", job.ID)
		require.Error(t, err)
		assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
	})
}

func TestJobGetCountsView(t *testing.T) {
	svc := NewJobService(newFakeJobRepo())
	ctx := context.Background()
	job := createTestJob(t, svc, "owner")

	got, err := svc.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Views)

	got, err = svc.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Views)
}

func TestJobSoftDelete(t *testing.T) {
	svc := NewJobService(newFakeJobRepo())
	ctx := context.Background()
	job := createTestJob(t, svc, "owner")

	err := svc.Delete(ctx, "intruder", job.ID)
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.ToDomainError(err).HTTPStatus)

	require.NoError(t, svc.Delete(ctx, "owner", job.ID))

	_, err = svc.Get(ctx, job.ID)
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.ToDomainError(err).HTTPStatus)
}

func TestJobForceCancelSkipsOwnership(t *testing.T) {
	svc := NewJobService(newFakeJobRepo())
	ctx := context.Background()
	job := createTestJob(t, svc, "owner")

	cancelled, err := svc.ForceCancel(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCancelled, cancelled.Status)
}
