package services

import (
	"fmt"

	"github.com/jmvsevilleja/shop-graphql/internal/models"
	"github.com/jmvsevilleja/shop-graphql/internal/repositories"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo         repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, categoryRepo repositories.CategoryRepository) *ProductService {
	return &ProductService{
		repo:         repo,
		categoryRepo: categoryRepo,
	}
}

// GetAllProducts retrieves a filtered page of products and the total match count.
func (s *ProductService) GetAllProducts(filter repositories.ProductFilter, page repositories.Pagination) ([]models.Product, int64, error) {
	return s.repo.GetAll(filter, page)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// GetProductBySlug retrieves a single active product by its slug.
func (s *ProductService) GetProductBySlug(slug string) (*models.Product, error) {
	return s.repo.GetBySlug(slug)
}

// GetFeaturedProducts retrieves up to limit featured products (default 8).
func (s *ProductService) GetFeaturedProducts(limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 8
	}
	return s.repo.GetFeatured(limit)
}

// SearchProducts is a pass-through to the repository's text search.
func (s *ProductService) SearchProducts(query string, page repositories.Pagination) ([]models.Product, int64, error) {
	return s.repo.GetAll(repositories.ProductFilter{Search: query}, page)
}

// CreateProduct creates a new product after validating its category.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if _, err := s.categoryRepo.GetByID(product.CategoryID); err != nil {
		return fmt.Errorf("product category: %w", err)
	}
	if len(product.Images) > models.MaxImagesPerProduct {
		return fmt.Errorf("maximum %d images allowed: %w", models.MaxImagesPerProduct, models.ErrTooManyImages)
	}
	if product.Status == "" {
		product.Status = models.ProductStatusActive
	}
	return s.repo.Create(product)
}

// UpdateProduct updates an existing product after validating its category.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	if product.CategoryID != "" {
		if _, err := s.categoryRepo.GetByID(product.CategoryID); err != nil {
			return fmt.Errorf("product category: %w", err)
		}
	}
	if len(product.Images) > models.MaxImagesPerProduct {
		return fmt.Errorf("maximum %d images allowed: %w", models.MaxImagesPerProduct, models.ErrTooManyImages)
	}
	return s.repo.Update(product)
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}

// UpdateStock adds delta (which may be negative) to the product's stock and
// clamps the result at zero. A large negative delta bottoms out rather than
// failing.
func (s *ProductService) UpdateStock(id string, delta int) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	stock := product.StockQuantity + delta
	if stock < 0 {
		stock = 0
	}
	product.StockQuantity = stock

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// CheckStock reports whether the requested quantity is currently available.
// Advisory only; nothing is reserved.
func (s *ProductService) CheckStock(id string, quantity int) (bool, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return false, err
	}
	return product.InStock(quantity), nil
}

// UpdateRating folds a new review rating into the product's running average.
func (s *ProductService) UpdateRating(id string, rating float64) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	product.Rating = (product.Rating*float64(product.ReviewCount) + rating) / float64(product.ReviewCount+1)
	product.ReviewCount++

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}
