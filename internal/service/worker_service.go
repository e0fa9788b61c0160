package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mento-services/marketplace-api/internal/domain"
	"github.com/mento-services/marketplace-api/internal/events"
	"github.com/mento-services/marketplace-api/internal/repository"
	apperrors "github.com/mento-services/marketplace-api/pkg/util"
)

// Search results never include workers farther than this.
const maxSearchRadiusMeters = 10000.0

const earthRadiusMeters = 6371000.0

// SubscriptionEntitlements is the slice of the subscription service the
// profile flows depend on.
type SubscriptionEntitlements interface {
	RequireActive(ctx context.Context, userID string, subType domain.SubscriptionType) (*domain.Subscription, error)
}

// CreateWorkerInput carries a new worker profile.
type CreateWorkerInput struct {
	Category    string
	Subcategory *string
	Description *string
	Latitude    *float64
	Longitude   *float64
}

// UpdateWorkerInput carries profile mutations.
type UpdateWorkerInput struct {
	Category    *string
	Subcategory *string
	Description *string
	Latitude    *float64
	Longitude   *float64
	IsAvailable *bool
}

// NearbySearchInput parameterizes the geo-proximity search.
type NearbySearchInput struct {
	Latitude    float64
	Longitude   float64
	Category    *string
	Subcategory *string
	Page        int
	Limit       int
}

// NearbyWorker pairs a profile with its distance from the query point.
type NearbyWorker struct {
	Worker         domain.WorkerProfile
	DistanceMeters float64
}

// NearbyResult is one page of ranked search results.
type NearbyResult struct {
	Workers []NearbyWorker
	Total   int64
	Page    int
	Limit   int
}

// WorkerService manages worker profiles and the proximity search.
type WorkerService struct {
	workers    repository.WorkerRepository
	subs       SubscriptionEntitlements
	dispatcher events.Dispatcher
}

// WorkerDependencies encapsulates collaborator requirements.
type WorkerDependencies struct {
	WorkerRepo    repository.WorkerRepository
	Subscriptions SubscriptionEntitlements
	Dispatcher    events.Dispatcher
}

// NewWorkerService builds the service.
func NewWorkerService(deps WorkerDependencies) *WorkerService {
	return &WorkerService{
		workers:    deps.WorkerRepo,
		subs:       deps.Subscriptions,
		dispatcher: deps.Dispatcher,
	}
}

// Create opens a worker profile for a subscriber. The plan tier is copied
// from the active subscription so ranking survives later expiry.
func (s *WorkerService) Create(ctx context.Context, userID string, input CreateWorkerInput) (*domain.WorkerProfile, error) {
	if input.Category == "" {
		return nil, apperrors.NewValidationError("category is required", nil)
	}

	if _, err := s.workers.GetByUserID(ctx, userID); err == nil {
		return nil, apperrors.NewValidationError("worker profile already exists", nil)
	} else if err != pgx.ErrNoRows {
		return nil, apperrors.NewInternalError(err)
	}

	sub, err := s.subs.RequireActive(ctx, userID, domain.SubscriptionTypeWorker)
	if err != nil {
		return nil, err
	}

	location, err := locationFromInput(input.Latitude, input.Longitude)
	if err != nil {
		return nil, err
	}

	worker := &domain.WorkerProfile{
		UserID:      userID,
		Category:    input.Category,
		Subcategory: input.Subcategory,
		Description: input.Description,
		PlanTier:    sub.PlanTier,
		IsAvailable: true,
		Location:    location,
	}
	if err := s.workers.Create(ctx, worker); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return worker, nil
}

// Get returns a worker profile by id.
func (s *WorkerService) Get(ctx context.Context, id string) (*domain.WorkerProfile, error) {
	worker, err := s.workers.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("worker profile", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return worker, nil
}

// GetOwn returns the caller's worker profile.
func (s *WorkerService) GetOwn(ctx context.Context, userID string) (*domain.WorkerProfile, error) {
	worker, err := s.workers.GetByUserID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("worker profile", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return worker, nil
}

// Update applies profile mutations for the owning user.
func (s *WorkerService) Update(ctx context.Context, userID string, input UpdateWorkerInput) (*domain.WorkerProfile, error) {
	worker, err := s.GetOwn(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Category != nil {
		if *input.Category == "" {
			return nil, apperrors.NewValidationError("category cannot be empty", nil)
		}
		worker.Category = *input.Category
	}
	if input.Subcategory != nil {
		worker.Subcategory = input.Subcategory
	}
	if input.Description != nil {
		worker.Description = input.Description
	}
	if input.IsAvailable != nil {
		worker.IsAvailable = *input.IsAvailable
	}
	if input.Latitude != nil || input.Longitude != nil {
		location, err := locationFromInput(input.Latitude, input.Longitude)
		if err != nil {
			return nil, err
		}
		worker.Location = location
	}

	if err := s.workers.Update(ctx, worker); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return worker, nil
}

// List returns a page of workers matching the filter, plus the total.
func (s *WorkerService) List(ctx context.Context, filter repository.WorkerFilter) ([]domain.WorkerProfile, int64, error) {
	workers, err := s.workers.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.NewInternalError(err)
	}
	total, err := s.workers.CountWithFilter(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.NewInternalError(err)
	}
	return workers, total, nil
}

// SearchNearby ranks verified, available workers around a point: nearest
// first, plan tier then rating breaking ties. Workers beyond the radius
// cap or without a stored location never appear.
func (s *WorkerService) SearchNearby(ctx context.Context, input NearbySearchInput) (*NearbyResult, error) {
	if err := validateCoordinates(input.Latitude, input.Longitude); err != nil {
		return nil, err
	}

	candidates, err := s.workers.ListGeoCandidates(ctx, input.Category, input.Subcategory)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	matches := make([]NearbyWorker, 0, len(candidates))
	for _, worker := range candidates {
		if worker.Location == nil || !worker.IsVerified || !worker.IsAvailable {
			continue
		}
		distance := haversineMeters(input.Latitude, input.Longitude, worker.Location.Latitude, worker.Location.Longitude)
		if distance > maxSearchRadiusMeters {
			continue
		}
		matches = append(matches, NearbyWorker{Worker: worker, DistanceMeters: distance})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].DistanceMeters != matches[j].DistanceMeters {
			return matches[i].DistanceMeters < matches[j].DistanceMeters
		}
		if matches[i].Worker.PlanTier != matches[j].Worker.PlanTier {
			return matches[i].Worker.PlanTier > matches[j].Worker.PlanTier
		}
		return matches[i].Worker.Rating > matches[j].Worker.Rating
	})

	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	total := int64(len(matches))
	start := (page - 1) * limit
	if start > len(matches) {
		start = len(matches)
	}
	end := start + limit
	if end > len(matches) {
		end = len(matches)
	}

	return &NearbyResult{
		Workers: matches[start:end],
		Total:   total,
		Page:    page,
		Limit:   limit,
	}, nil
}

// SetVerified is the moderator switch that admits a worker to search.
func (s *WorkerService) SetVerified(ctx context.Context, workerID string, verified bool) error {
	if err := s.workers.SetVerified(ctx, workerID, verified); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("worker profile", nil)
		}
		return apperrors.NewInternalError(err)
	}
	if s.dispatcher != nil {
		worker, err := s.workers.GetByID(ctx, workerID)
		if err == nil {
			_ = s.dispatcher.Publish(ctx, events.Event{
				ID:        uuid.NewString(),
				Type:      events.EventWorkerVerified,
				UserID:    worker.UserID,
				Timestamp: time.Now(),
				Payload:   events.WorkerVerifiedPayload{WorkerID: workerID, Verified: verified},
			})
		}
	}
	return nil
}

func locationFromInput(latitude, longitude *float64) (*domain.Location, error) {
	if latitude == nil && longitude == nil {
		return nil, nil
	}
	if latitude == nil || longitude == nil {
		return nil, apperrors.NewValidationError("latitude and longitude must be provided together", nil)
	}
	if err := validateCoordinates(*latitude, *longitude); err != nil {
		return nil, err
	}
	return &domain.Location{Longitude: *longitude, Latitude: *latitude}, nil
}

// haversineMeters computes the spherical distance between two points.
func haversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}
