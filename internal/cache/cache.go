package cache

import (
	"context"
	"errors"

	"github.com/jmvsevilleja/shop-graphql/internal/models"
)

// ErrCacheMiss is returned by Get when no cart is cached for the user.
var ErrCacheMiss = errors.New("cache miss")

// CartCache is a best-effort read-through cache in front of the cart store.
type CartCache interface {
	Get(ctx context.Context, userID string) (*models.Cart, error)
	Set(ctx context.Context, userID string, cart *models.Cart) error
	Delete(ctx context.Context, userID string) error
}

// NoopCartCache satisfies CartCache without caching anything. Used when no
// Redis address is configured and in tests.
type NoopCartCache struct{}

func (NoopCartCache) Get(context.Context, string) (*models.Cart, error) { return nil, ErrCacheMiss }

func (NoopCartCache) Set(context.Context, string, *models.Cart) error { return nil }

func (NoopCartCache) Delete(context.Context, string) error { return nil }
