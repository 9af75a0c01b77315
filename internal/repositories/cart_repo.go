package repositories

import (
	"context"

	"github.com/jmvsevilleja/shop-graphql/internal/models"
)

// CartRepository defines the interface for cart data access. Carts are
// document aggregates keyed by owner, so operations are context-aware.
type CartRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Delete(ctx context.Context, userID string) error
}
