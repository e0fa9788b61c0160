package dto

import "github.com/mento-services/marketplace-api/internal/domain"

// CreateCategoryRequest adds a taxonomy node.
type CreateCategoryRequest struct {
	Name          string   `json:"name"`
	Subcategories []string `json:"subcategories"`
}

// UpdateCategoryRequest mutates a taxonomy node.
type UpdateCategoryRequest struct {
	Name          *string  `json:"name"`
	Subcategories []string `json:"subcategories"`
}

// CategoryResponse is the outward category shape.
type CategoryResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Subcategories []string `json:"subcategories"`
}

// NewCategoryResponse maps the domain category.
func NewCategoryResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:            category.ID,
		Name:          category.Name,
		Subcategories: category.Subcategories,
	}
}
