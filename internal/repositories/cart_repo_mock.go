package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jmvsevilleja/shop-graphql/internal/models"
)

// MockCartRepository is an in-memory implementation of CartRepository.
type MockCartRepository struct {
	carts map[string]models.Cart // keyed by user ID
	mu    sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		carts: make(map[string]models.Cart),
	}
}

// GetByUserID returns the cart owned by userID.
func (r *MockCartRepository) GetByUserID(_ context.Context, userID string) (*models.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[userID]
	if !ok {
		return nil, fmt.Errorf("cart for user %s: %w", userID, models.ErrCartNotFound)
	}
	return &cart, nil
}

// Save upserts the cart keyed by its owner.
func (r *MockCartRepository) Save(_ context.Context, cart *models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now
	cart.LastActivityAt = now
	r.carts[cart.UserID] = *cart
	return nil
}

// Delete removes the cart owned by userID.
func (r *MockCartRepository) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.carts[userID]; !ok {
		return fmt.Errorf("cart for user %s: %w", userID, models.ErrCartNotFound)
	}
	delete(r.carts, userID)
	return nil
}
