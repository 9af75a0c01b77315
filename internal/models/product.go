package models

import "gorm.io/gorm"

// Product statuses.
const (
	ProductStatusActive   = "ACTIVE"
	ProductStatusInactive = "INACTIVE"
)

// MaxImagesPerProduct caps the images accepted on create/update.
const MaxImagesPerProduct = 10

// Product represents a product in the catalog.
type Product struct {
	ID             string   `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name           string   `json:"name" validate:"required,min=3,max=100"`
	Slug           string   `json:"slug" gorm:"uniqueIndex;type:varchar(150)" validate:"required"`
	Description    string   `json:"description" validate:"omitempty,max=2000"`
	Price          float64  `json:"price" validate:"required,gt=0"`
	CompareAtPrice float64  `json:"compare_at_price,omitempty" validate:"omitempty,gte=0"`
	StockQuantity  int      `json:"stock_quantity" validate:"gte=0"`
	CategoryID     string   `json:"category_id" gorm:"index;type:varchar(36)" validate:"required"`
	Images         []string `json:"images" gorm:"serializer:json" validate:"omitempty,max=10"`
	IsFeatured     bool     `json:"is_featured"`
	Status         string   `json:"status" gorm:"default:ACTIVE"`
	Rating         float64  `json:"rating"`
	ReviewCount    int      `json:"review_count"`
	gorm.Model              // CreatedAt, UpdatedAt, DeletedAt
}

// InStock reports whether the requested quantity is currently available.
func (p *Product) InStock(quantity int) bool {
	return p.StockQuantity >= quantity
}
