package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/mento-services/marketplace-api/internal/domain"
	"github.com/mento-services/marketplace-api/internal/repository"
	apperrors "github.com/mento-services/marketplace-api/pkg/util"
)

// CategoryService manages the public service taxonomy.
type CategoryService struct {
	categories repository.CategoryRepository
}

// NewCategoryService builds the service.
func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// List returns the active taxonomy.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.ListActive(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return categories, nil
}

// Create adds a category. Moderator only.
func (s *CategoryService) Create(ctx context.Context, name string, subcategories []string) (*domain.Category, error) {
	if name == "" {
		return nil, apperrors.NewValidationError("category name is required", nil)
	}
	if _, err := s.categories.GetByName(ctx, name); err == nil {
		return nil, apperrors.NewValidationError("category already exists", nil)
	} else if err != pgx.ErrNoRows {
		return nil, apperrors.NewInternalError(err)
	}

	category := &domain.Category{Name: name, Subcategories: subcategories}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return category, nil
}

// Update renames a category or rewrites its subcategories. Moderator only.
func (s *CategoryService) Update(ctx context.Context, id string, name *string, subcategories []string) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("category", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	if name != nil {
		if *name == "" {
			return nil, apperrors.NewValidationError("category name cannot be empty", nil)
		}
		category.Name = *name
	}
	if subcategories != nil {
		category.Subcategories = subcategories
	}

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return category, nil
}

// Delete retires a category from the taxonomy. Moderator only.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("category", nil)
		}
		return apperrors.NewInternalError(err)
	}
	return nil
}
