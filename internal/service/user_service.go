package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/mento-services/marketplace-api/internal/domain"
	"github.com/mento-services/marketplace-api/internal/repository"
	apperrors "github.com/mento-services/marketplace-api/pkg/util"
)

// UpdateProfileInput carries optional profile mutations.
type UpdateProfileInput struct {
	Name    *string
	Email   *string
	Pincode *string
}

// UserService manages the user's own account.
type UserService struct {
	users repository.UserRepository
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// Get returns the user's record.
func (s *UserService) Get(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// UpdateProfile applies the provided fields after validation.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = input.Name
	}
	if input.Email != nil {
		if err := validateEmail(*input.Email); err != nil {
			return nil, err
		}
		user.Email = input.Email
	}
	if input.Pincode != nil {
		if err := validatePincode(*input.Pincode); err != nil {
			return nil, err
		}
		user.Pincode = input.Pincode
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// UpdateFCMToken stores the device token for push delivery.
func (s *UserService) UpdateFCMToken(ctx context.Context, userID, token string) error {
	if token == "" {
		return apperrors.NewValidationError("fcm token is required", nil)
	}
	if err := s.users.UpdateFCMToken(ctx, userID, token); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("user", nil)
		}
		return apperrors.NewInternalError(err)
	}
	return nil
}

// Deactivate soft-deletes the account. The row survives so history and
// reviews keep their author.
func (s *UserService) Deactivate(ctx context.Context, userID string) error {
	if err := s.users.Deactivate(ctx, userID); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("user", nil)
		}
		return apperrors.NewInternalError(err)
	}
	return nil
}
