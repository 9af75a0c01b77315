package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jmvsevilleja/shop-graphql/internal/models"
)

// GORMCategoryRepository is a GORM implementation of CategoryRepository.
type GORMCategoryRepository struct {
	db *gorm.DB
}

// NewGORMCategoryRepository creates a new instance of GORMCategoryRepository.
func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{
		db: db,
	}
}

// GetAll retrieves all active categories ordered by their sort order.
func (r *GORMCategoryRepository) GetAll() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Where("is_active = ?", true).Order("sort_order").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}

// GetByID retrieves a single category by its ID.
func (r *GORMCategoryRepository) GetByID(id string) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %s: %w", id, models.ErrCategoryNotFound)
		}
		return nil, fmt.Errorf("failed to get category by ID %s: %w", id, err)
	}
	return &category, nil
}

// GetBySlug retrieves a single active category by its slug.
func (r *GORMCategoryRepository) GetBySlug(slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.First(&category, "slug = ? AND is_active = ?", slug, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %s: %w", slug, models.ErrCategoryNotFound)
		}
		return nil, fmt.Errorf("failed to get category by slug %s: %w", slug, err)
	}
	return &category, nil
}

// GetChildren retrieves the active direct children of a category.
func (r *GORMCategoryRepository) GetChildren(parentID string) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.
		Where("parent_id = ? AND is_active = ?", parentID, true).
		Order("sort_order").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get subcategories of %s: %w", parentID, err)
	}
	return categories, nil
}

// GetRoots retrieves the active categories with no parent.
func (r *GORMCategoryRepository) GetRoots() ([]models.Category, error) {
	var categories []models.Category
	err := r.db.
		Where("parent_id IS NULL AND is_active = ?", true).
		Order("sort_order").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get root categories: %w", err)
	}
	return categories, nil
}

// HasChildren reports whether any category points at id as its parent.
func (r *GORMCategoryRepository) HasChildren(id string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Category{}).Where("parent_id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count subcategories of %s: %w", id, err)
	}
	return count > 0, nil
}

// Create creates a new category in the database.
func (r *GORMCategoryRepository) Create(category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if err := r.db.Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// Update updates an existing category in the database.
func (r *GORMCategoryRepository) Update(category *models.Category) error {
	res := r.db.Save(category)
	if res.Error != nil {
		return fmt.Errorf("failed to update category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("category %s: %w", category.ID, models.ErrCategoryNotFound)
	}
	return nil
}

// Delete deletes a category by its ID from the database.
func (r *GORMCategoryRepository) Delete(id string) error {
	res := r.db.Delete(&models.Category{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("category %s: %w", id, models.ErrCategoryNotFound)
	}
	return nil
}

// Reorder assigns sequential sort orders to the given ids in one transaction.
func (r *GORMCategoryRepository) Reorder(ids []string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for index, id := range ids {
			res := tx.Model(&models.Category{}).Where("id = ?", id).Update("sort_order", index)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("category %s: %w", id, models.ErrCategoryNotFound)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to reorder categories: %w", err)
	}
	return nil
}
