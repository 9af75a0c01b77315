package repositories

import "github.com/jmvsevilleja/shop-graphql/internal/models"

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	GetAll() ([]models.Category, error)
	GetByID(id string) (*models.Category, error)
	GetBySlug(slug string) (*models.Category, error)
	GetChildren(parentID string) ([]models.Category, error)
	GetRoots() ([]models.Category, error)
	HasChildren(id string) (bool, error)
	Create(category *models.Category) error
	Update(category *models.Category) error
	Delete(id string) error
	// Reorder assigns sequential sort orders to the given ids in one update.
	Reorder(ids []string) error
}
