package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mento-services/marketplace-api/internal/api/dto"
	"github.com/mento-services/marketplace-api/internal/service"
)

// CategoriesHandler exposes the public service taxonomy.
type CategoriesHandler struct {
	categories *service.CategoryService
}

// NewCategoriesHandler constructs handler.
func NewCategoriesHandler(categoryService *service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{categories: categoryService}
}

// List handles GET /categories.
func (h *CategoriesHandler) List(c *fiber.Ctx) error {
	categories, err := h.categories.List(c.UserContext())
	if err != nil {
		return err
	}

	items := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, dto.NewCategoryResponse(&categories[i]))
	}
	return ok(c, items)
}
