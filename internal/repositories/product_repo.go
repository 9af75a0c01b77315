package repositories

import (
	"github.com/jmvsevilleja/shop-graphql/internal/models"
)

// ProductFilter narrows product listings. Zero values mean "no constraint".
type ProductFilter struct {
	CategoryID string
	Search     string
	MinPrice   float64
	MaxPrice   float64
	InStock    bool
	Featured   bool
}

// Pagination selects a page of results. Page is 1-based.
type Pagination struct {
	Page  int
	Limit int
}

// Offset returns the row offset for the page.
func (p Pagination) Offset() int {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * p.Limit
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(filter ProductFilter, page Pagination) ([]models.Product, int64, error)
	GetByID(id string) (*models.Product, error)
	GetBySlug(slug string) (*models.Product, error)
	GetFeatured(limit int) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}
