package repositories

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/jmvsevilleja/shop-graphql/internal/models"
)

// MockCategoryRepository is an in-memory implementation of CategoryRepository.
type MockCategoryRepository struct {
	categories map[string]models.Category
	mu         sync.RWMutex
}

// NewMockCategoryRepository creates a new instance of MockCategoryRepository.
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		categories: make(map[string]models.Category),
	}
}

func sortByOrder(categories []models.Category) {
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Order != categories[j].Order {
			return categories[i].Order < categories[j].Order
		}
		return categories[i].ID < categories[j].ID
	})
}

// GetAll returns all active categories ordered by sort order.
func (r *MockCategoryRepository) GetAll() ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Category, 0, len(r.categories))
	for _, c := range r.categories {
		if c.IsActive {
			list = append(list, c)
		}
	}
	sortByOrder(list)
	return list, nil
}

// GetByID returns a category by its ID.
func (r *MockCategoryRepository) GetByID(id string) (*models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	category, ok := r.categories[id]
	if !ok {
		return nil, fmt.Errorf("category %s: %w", id, models.ErrCategoryNotFound)
	}
	return &category, nil
}

// GetBySlug returns an active category by its slug.
func (r *MockCategoryRepository) GetBySlug(slug string) (*models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.categories {
		if c.Slug == slug && c.IsActive {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("category %s: %w", slug, models.ErrCategoryNotFound)
}

// GetChildren returns the active direct children of a category.
func (r *MockCategoryRepository) GetChildren(parentID string) ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []models.Category
	for _, c := range r.categories {
		if c.IsActive && c.ParentID != nil && *c.ParentID == parentID {
			list = append(list, c)
		}
	}
	sortByOrder(list)
	return list, nil
}

// GetRoots returns the active categories with no parent.
func (r *MockCategoryRepository) GetRoots() ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []models.Category
	for _, c := range r.categories {
		if c.IsActive && c.ParentID == nil {
			list = append(list, c)
		}
	}
	sortByOrder(list)
	return list, nil
}

// HasChildren reports whether any category points at id as its parent.
func (r *MockCategoryRepository) HasChildren(id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.categories {
		if c.ParentID != nil && *c.ParentID == id {
			return true, nil
		}
	}
	return false, nil
}

// Create adds a new category.
func (r *MockCategoryRepository) Create(category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	r.categories[category.ID] = *category
	return nil
}

// Update modifies an existing category.
func (r *MockCategoryRepository) Update(category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.categories[category.ID]
	if !ok {
		return fmt.Errorf("category %s: %w", category.ID, models.ErrCategoryNotFound)
	}
	r.categories[category.ID] = *category
	return nil
}

// Delete removes a category by its ID.
func (r *MockCategoryRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.categories[id]
	if !ok {
		return fmt.Errorf("category %s: %w", id, models.ErrCategoryNotFound)
	}
	delete(r.categories, id)
	return nil
}

// Reorder assigns sequential sort orders to the given ids.
func (r *MockCategoryRepository) Reorder(ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for index, id := range ids {
		category, ok := r.categories[id]
		if !ok {
			return fmt.Errorf("category %s: %w", id, models.ErrCategoryNotFound)
		}
		category.Order = index
		r.categories[id] = category
	}
	return nil
}
