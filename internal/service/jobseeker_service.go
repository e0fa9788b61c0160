package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/mento-services/marketplace-api/internal/domain"
	"github.com/mento-services/marketplace-api/internal/repository"
	apperrors "github.com/mento-services/marketplace-api/pkg/util"
)

// CreateJobSeekerInput carries a new job-seeker profile.
type CreateJobSeekerInput struct {
	Skills         []string
	ExperienceYrs  int
	PreferredCity  *string
	ExpectedSalary *int64
	ResumeURL      *string
}

// UpdateJobSeekerInput carries profile mutations.
type UpdateJobSeekerInput struct {
	Skills         []string
	ExperienceYrs  *int
	PreferredCity  *string
	ExpectedSalary *int64
	ResumeURL      *string
	IsAvailable    *bool
}

// JobSeekerService manages job-seeker profiles.
type JobSeekerService struct {
	profiles repository.JobSeekerRepository
	subs     SubscriptionEntitlements
}

// JobSeekerDependencies encapsulates collaborator requirements.
type JobSeekerDependencies struct {
	JobSeekerRepo repository.JobSeekerRepository
	Subscriptions SubscriptionEntitlements
}

// NewJobSeekerService builds the service.
func NewJobSeekerService(deps JobSeekerDependencies) *JobSeekerService {
	return &JobSeekerService{profiles: deps.JobSeekerRepo, subs: deps.Subscriptions}
}

// Create opens a job-seeker profile for a subscriber.
func (s *JobSeekerService) Create(ctx context.Context, userID string, input CreateJobSeekerInput) (*domain.JobSeekerProfile, error) {
	if len(input.Skills) == 0 {
		return nil, apperrors.NewValidationError("at least one skill is required", nil)
	}
	if input.ExperienceYrs < 0 {
		return nil, apperrors.NewValidationError("experience cannot be negative", nil)
	}

	if _, err := s.profiles.GetByUserID(ctx, userID); err == nil {
		return nil, apperrors.NewValidationError("job seeker profile already exists", nil)
	} else if err != pgx.ErrNoRows {
		return nil, apperrors.NewInternalError(err)
	}

	sub, err := s.subs.RequireActive(ctx, userID, domain.SubscriptionTypeJobSeeker)
	if err != nil {
		return nil, err
	}

	profile := &domain.JobSeekerProfile{
		UserID:         userID,
		Skills:         input.Skills,
		ExperienceYrs:  input.ExperienceYrs,
		PreferredCity:  input.PreferredCity,
		ExpectedSalary: input.ExpectedSalary,
		ResumeURL:      input.ResumeURL,
		PlanTier:       sub.PlanTier,
		IsAvailable:    true,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return profile, nil
}

// Get returns a profile by id.
func (s *JobSeekerService) Get(ctx context.Context, id string) (*domain.JobSeekerProfile, error) {
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("job seeker profile", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return profile, nil
}

// GetOwn returns the caller's profile.
func (s *JobSeekerService) GetOwn(ctx context.Context, userID string) (*domain.JobSeekerProfile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("job seeker profile", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return profile, nil
}

// Update applies profile mutations for the owning user.
func (s *JobSeekerService) Update(ctx context.Context, userID string, input UpdateJobSeekerInput) (*domain.JobSeekerProfile, error) {
	profile, err := s.GetOwn(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Skills != nil {
		if len(input.Skills) == 0 {
			return nil, apperrors.NewValidationError("at least one skill is required", nil)
		}
		profile.Skills = input.Skills
	}
	if input.ExperienceYrs != nil {
		if *input.ExperienceYrs < 0 {
			return nil, apperrors.NewValidationError("experience cannot be negative", nil)
		}
		profile.ExperienceYrs = *input.ExperienceYrs
	}
	if input.PreferredCity != nil {
		profile.PreferredCity = input.PreferredCity
	}
	if input.ExpectedSalary != nil {
		profile.ExpectedSalary = input.ExpectedSalary
	}
	if input.ResumeURL != nil {
		profile.ResumeURL = input.ResumeURL
	}
	if input.IsAvailable != nil {
		profile.IsAvailable = *input.IsAvailable
	}

	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return profile, nil
}

// List returns a page of profiles matching the filter, plus the total.
func (s *JobSeekerService) List(ctx context.Context, filter repository.JobSeekerFilter) ([]domain.JobSeekerProfile, int64, error) {
	profiles, err := s.profiles.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.NewInternalError(err)
	}
	total, err := s.profiles.CountWithFilter(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.NewInternalError(err)
	}
	return profiles, total, nil
}

// SetVerified is the moderator switch for job seekers.
func (s *JobSeekerService) SetVerified(ctx context.Context, id string, verified bool) error {
	if err := s.profiles.SetVerified(ctx, id, verified); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("job seeker profile", nil)
		}
		return apperrors.NewInternalError(err)
	}
	return nil
}
