package services

import (
	"fmt"

	"github.com/jmvsevilleja/shop-graphql/internal/models"
	"github.com/jmvsevilleja/shop-graphql/internal/repositories"
)

// CategoryService handles business logic related to the category tree.
type CategoryService struct {
	repo repositories.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{
		repo: repo,
	}
}

// GetAllCategories retrieves all active categories ordered by sort order.
func (s *CategoryService) GetAllCategories() ([]models.Category, error) {
	return s.repo.GetAll()
}

// GetCategoryByID retrieves a single category by its ID.
func (s *CategoryService) GetCategoryByID(id string) (*models.Category, error) {
	return s.repo.GetByID(id)
}

// GetCategoryBySlug retrieves a single active category by its slug.
func (s *CategoryService) GetCategoryBySlug(slug string) (*models.Category, error) {
	return s.repo.GetBySlug(slug)
}

// GetSubcategories retrieves the active direct children of a category.
func (s *CategoryService) GetSubcategories(parentID string) ([]models.Category, error) {
	return s.repo.GetChildren(parentID)
}

// GetRootCategories retrieves the active categories with no parent.
func (s *CategoryService) GetRootCategories() ([]models.Category, error) {
	return s.repo.GetRoots()
}

// CreateCategory creates a new category, validating the parent if given.
func (s *CategoryService) CreateCategory(category *models.Category) error {
	if category.ParentID != nil {
		if _, err := s.repo.GetByID(*category.ParentID); err != nil {
			return fmt.Errorf("parent category: %w", err)
		}
	}
	return s.repo.Create(category)
}

// UpdateCategory updates a category. A category may not be its own parent.
func (s *CategoryService) UpdateCategory(category *models.Category) error {
	if category.ParentID != nil {
		if *category.ParentID == category.ID {
			return fmt.Errorf("category %s: %w", category.ID, models.ErrCategorySelfParent)
		}
		if _, err := s.repo.GetByID(*category.ParentID); err != nil {
			return fmt.Errorf("parent category: %w", err)
		}
	}
	return s.repo.Update(category)
}

// DeleteCategory deletes a category unless it still has subcategories.
func (s *CategoryService) DeleteCategory(id string) error {
	hasChildren, err := s.repo.HasChildren(id)
	if err != nil {
		return err
	}
	if hasChildren {
		return fmt.Errorf("category %s: %w", id, models.ErrCategoryHasChildren)
	}
	return s.repo.Delete(id)
}

// ReorderCategories assigns sequential sort orders to the given ids.
func (s *CategoryService) ReorderCategories(ids []string) ([]models.Category, error) {
	if err := s.repo.Reorder(ids); err != nil {
		return nil, err
	}
	return s.repo.GetAll()
}

// GetCategoryPath walks parent references up to the root and returns the
// chain root-first. The walk tracks visited ids so a malformed cyclic parent
// chain fails instead of looping forever.
func (s *CategoryService) GetCategoryPath(id string) ([]models.Category, error) {
	var path []models.Category
	visited := make(map[string]bool)

	current, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	for current != nil {
		if visited[current.ID] {
			return nil, fmt.Errorf("category %s: %w", current.ID, models.ErrCategoryCycle)
		}
		visited[current.ID] = true
		path = append([]models.Category{*current}, path...)

		if current.ParentID == nil {
			break
		}
		current, err = s.repo.GetByID(*current.ParentID)
		if err != nil {
			return nil, err
		}
	}

	return path, nil
}
