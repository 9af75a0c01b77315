package repositories

import (
	"github.com/jmvsevilleja/shop-graphql/internal/models"
)

// OrderRepository defines the interface for order data access. Orders are
// immutable snapshots; only their status may change after creation.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	GetByUserID(userID string) ([]models.Order, error)
	Create(order *models.Order) error
	UpdateStatus(id string, status string) error
}
