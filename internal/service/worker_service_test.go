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

type fakeWorkerRepo struct {
	byID   map[string]*domain.WorkerProfile
	nextID int
}

func newFakeWorkerRepo() *fakeWorkerRepo {
	return &fakeWorkerRepo{byID: map[string]*domain.WorkerProfile{}}
}

func (f *fakeWorkerRepo) add(worker domain.WorkerProfile) *domain.WorkerProfile {
	f.nextID++
	if worker.ID == "" {
		worker.ID = fmt.Sprintf("w%d", f.nextID)
	}
	stored := worker
	f.byID[stored.ID] = &stored
	return &stored
}

func (f *fakeWorkerRepo) Create(_ context.Context, worker *domain.WorkerProfile) error {
	f.nextID++
	worker.ID = fmt.Sprintf("w%d", f.nextID)
	stored := *worker
	f.byID[worker.ID] = &stored
	return nil
}

func (f *fakeWorkerRepo) Update(_ context.Context, worker *domain.WorkerProfile) error {
	if _, ok := f.byID[worker.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *worker
	f.byID[worker.ID] = &stored
	return nil
}

func (f *fakeWorkerRepo) GetByID(_ context.Context, id string) (*domain.WorkerProfile, error) {
	worker, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *worker
	return &copied, nil
}

func (f *fakeWorkerRepo) GetByUserID(_ context.Context, userID string) (*domain.WorkerProfile, error) {
	for _, worker := range f.byID {
		if worker.UserID == userID {
			copied := *worker
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeWorkerRepo) UpdateRating(_ context.Context, id string, rating float64, totalReviews int64) error {
	worker, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	worker.Rating = rating
	worker.TotalReviews = totalReviews
	return nil
}

func (f *fakeWorkerRepo) SetVerified(_ context.Context, id string, verified bool) error {
	worker, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	worker.IsVerified = verified
	return nil
}

func (f *fakeWorkerRepo) ListWithFilter(_ context.Context, _ repository.WorkerFilter) ([]domain.WorkerProfile, error) {
	var out []domain.WorkerProfile
	for _, worker := range f.byID {
		out = append(out, *worker)
	}
	return out, nil
}

func (f *fakeWorkerRepo) CountWithFilter(_ context.Context, _ repository.WorkerFilter) (int64, error) {
	return int64(len(f.byID)), nil
}

func (f *fakeWorkerRepo) ListGeoCandidates(_ context.Context, category, _ *string) ([]domain.WorkerProfile, error) {
	var out []domain.WorkerProfile
	for _, worker := range f.byID {
		if category != nil && worker.Category != *category {
			continue
		}
		out = append(out, *worker)
	}
	return out, nil
}

type fakeEntitlements struct {
	sub *domain.Subscription
	err error
}

func (f *fakeEntitlements) RequireActive(context.Context, string, domain.SubscriptionType) (*domain.Subscription, error) {
	return f.sub, f.err
}

func newWorkerServiceForTest(repo *fakeWorkerRepo, subs SubscriptionEntitlements) *WorkerService {
	if subs == nil {
		subs = &fakeEntitlements{sub: &domain.Subscription{PlanTier: 1, Status: domain.SubscriptionActive}}
	}
	return NewWorkerService(WorkerDependencies{WorkerRepo: repo, Subscriptions: subs})
}

// geoWorker places a verified, available worker at a latitude offset from
// the origin. 0.01 degrees of latitude is roughly 1.1km.
func geoWorker(id string, latOffset float64, tier int, rating float64) domain.WorkerProfile {
	return domain.WorkerProfile{
		ID:          id,
		UserID:      "user-" + id,
		Category:    "plumbing",
		PlanTier:    tier,
		IsVerified:  true,
		IsAvailable: true,
		Rating:      rating,
		Location:    &domain.Location{Longitude: 77.0, Latitude: 12.0 + latOffset},
	}
}

func TestSearchNearbyOrdersByDistance(t *testing.T) {
	repo := newFakeWorkerRepo()
	repo.add(geoWorker("far", 0.03, 1, 4.0))
	repo.add(geoWorker("near", 0.005, 1, 4.0))
	repo.add(geoWorker("mid", 0.01, 1, 4.0))

	svc := newWorkerServiceForTest(repo, nil)
	result, err := svc.SearchNearby(context.Background(), NearbySearchInput{Latitude: 12.0, Longitude: 77.0})
	require.NoError(t, err)

	require.Len(t, result.Workers, 3)
	assert.Equal(t, "near", result.Workers[0].Worker.ID)
	assert.Equal(t, "mid", result.Workers[1].Worker.ID)
	assert.Equal(t, "far", result.Workers[2].Worker.ID)
	assert.Less(t, result.Workers[0].DistanceMeters, result.Workers[1].DistanceMeters)
}

func TestSearchNearbyExcludesBeyondRadius(t *testing.T) {
	repo := newFakeWorkerRepo()
	repo.add(geoWorker("inside", 0.05, 1, 4.0))  // ~5.6km
	repo.add(geoWorker("outside", 0.1, 1, 4.0))  // ~11.1km
	repo.add(geoWorker("edge", 0.0899, 1, 4.0))  // just under 10km

	svc := newWorkerServiceForTest(repo, nil)
	result, err := svc.SearchNearby(context.Background(), NearbySearchInput{Latitude: 12.0, Longitude: 77.0})
	require.NoError(t, err)

	ids := make([]string, 0, len(result.Workers))
	for _, match := range result.Workers {
		ids = append(ids, match.Worker.ID)
	}
	assert.ElementsMatch(t, []string{"inside", "edge"}, ids)
	assert.Equal(t, int64(2), result.Total)
}

func TestSearchNearbyExcludesIneligibleWorkers(t *testing.T) {
	repo := newFakeWorkerRepo()

	unverified := geoWorker("unverified", 0.01, 1, 4.0)
	unverified.IsVerified = false
	repo.add(unverified)

	unavailable := geoWorker("unavailable", 0.01, 1, 4.0)
	unavailable.IsAvailable = false
	repo.add(unavailable)

	noLocation := geoWorker("nolocation", 0.01, 1, 4.0)
	noLocation.Location = nil
	repo.add(noLocation)

	repo.add(geoWorker("eligible", 0.01, 1, 4.0))

	svc := newWorkerServiceForTest(repo, nil)
	result, err := svc.SearchNearby(context.Background(), NearbySearchInput{Latitude: 12.0, Longitude: 77.0})
	require.NoError(t, err)

	require.Len(t, result.Workers, 1)
	assert.Equal(t, "eligible", result.Workers[0].Worker.ID)
}

func TestSearchNearbyBreaksTiesByTierThenRating(t *testing.T) {
	repo := newFakeWorkerRepo()
	repo.add(geoWorker("tier1-low", 0.01, 1, 3.0))
	repo.add(geoWorker("tier2", 0.01, 2, 3.5))
	repo.add(geoWorker("tier1-high", 0.01, 1, 4.8))

	svc := newWorkerServiceForTest(repo, nil)
	result, err := svc.SearchNearby(context.Background(), NearbySearchInput{Latitude: 12.0, Longitude: 77.0})
	require.NoError(t, err)

	require.Len(t, result.Workers, 3)
	assert.Equal(t, "tier2", result.Workers[0].Worker.ID)
	assert.Equal(t, "tier1-high", result.Workers[1].Worker.ID)
	assert.Equal(t, "tier1-low", result.Workers[2].Worker.ID)
}

func TestSearchNearbyPaginates(t *testing.T) {
	repo := newFakeWorkerRepo()
	for i := 0; i < 5; i++ {
		repo.add(geoWorker(fmt.Sprintf("w%d", i), 0.001*float64(i+1), 1, 4.0))
	}

	svc := newWorkerServiceForTest(repo, nil)
	result, err := svc.SearchNearby(context.Background(), NearbySearchInput{
		Latitude:  12.0,
		Longitude: 77.0,
		Page:      2,
		Limit:     2,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(5), result.Total)
	require.Len(t, result.Workers, 2)
	assert.Equal(t, "w2", result.Workers[0].Worker.ID)
	assert.Equal(t, "w3", result.Workers[1].Worker.ID)
}

func TestSearchNearbyRejectsBadCoordinates(t *testing.T) {
	svc := newWorkerServiceForTest(newFakeWorkerRepo(), nil)

	_, err := svc.SearchNearby(context.Background(), NearbySearchInput{Latitude: 91.0, Longitude: 77.0})
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)

	_, err = svc.SearchNearby(context.Background(), NearbySearchInput{Latitude: 12.0, Longitude: -181.0})
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
}

func TestCreateRequiresActiveSubscription(t *testing.T) {
	repo := newFakeWorkerRepo()
	subs := &fakeEntitlements{err: apperrors.NewSubscriptionRequired(string(domain.SubscriptionTypeWorker))}
	svc := newWorkerServiceForTest(repo, subs)

	_, err := svc.Create(context.Background(), "user-1", CreateWorkerInput{Category: "plumbing"})
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "SUBSCRIPTION_REQUIRED", domainErr.Code)
	assert.Equal(t, 400, domainErr.HTTPStatus)
}

func TestCreateCopiesPlanTierFromSubscription(t *testing.T) {
	repo := newFakeWorkerRepo()
	subs := &fakeEntitlements{sub: &domain.Subscription{PlanTier: 2, Status: domain.SubscriptionActive}}
	svc := newWorkerServiceForTest(repo, subs)

	lat, lng := 12.0, 77.0
	worker, err := svc.Create(context.Background(), "user-1", CreateWorkerInput{
		Category:  "plumbing",
		Latitude:  &lat,
		Longitude: &lng,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, worker.PlanTier)
	assert.True(t, worker.IsAvailable)
	assert.False(t, worker.IsVerified)
	require.NotNil(t, worker.Location)
	assert.Equal(t, 77.0, worker.Location.Longitude)
}

func TestCreateRejectsSecondProfile(t *testing.T) {
	repo := newFakeWorkerRepo()
	repo.add(domain.WorkerProfile{ID: "w1", UserID: "user-1", Category: "plumbing"})
	svc := newWorkerServiceForTest(repo, nil)

	_, err := svc.Create(context.Background(), "user-1", CreateWorkerInput{Category: "electrical"})
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
}

func TestCreateRejectsPartialCoordinates(t *testing.T) {
	svc := newWorkerServiceForTest(newFakeWorkerRepo(), nil)

	lat := 12.0
	_, err := svc.Create(context.Background(), "user-1", CreateWorkerInput{Category: "plumbing", Latitude: &lat})
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
}
