package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/jmvsevilleja/shop-graphql/internal/cache"
	"github.com/jmvsevilleja/shop-graphql/internal/models"
	"github.com/jmvsevilleja/shop-graphql/internal/repositories"
)

// DiscountPolicy resolves a cart's coupon code to a discount amount. The
// default policy always returns zero; real coupon rules plug in here.
type DiscountPolicy interface {
	Discount(cart *models.Cart) float64
}

type zeroDiscount struct{}

func (zeroDiscount) Discount(*models.Cart) float64 { return 0 }

// CheckoutInput carries the shipping and payment details for a checkout.
type CheckoutInput struct {
	ShippingAddress string `json:"shipping_address" validate:"required"`
	BillingAddress  string `json:"billing_address" validate:"required"`
	PaymentMethod   string `json:"payment_method" validate:"required"`
	Notes           string `json:"notes"`
}

// CartService owns the per-user cart: item mutations, totals and checkout.
// Mutations for the same user are serialized behind a per-user mutex, so two
// concurrent requests cannot lose each other's writes in-process.
type CartService struct {
	repo           repositories.CartRepository
	cartCache      cache.CartCache
	productService *ProductService
	orderService   *OrderService
	discount       DiscountPolicy

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewCartService creates a new CartService with the zero discount policy.
func NewCartService(repo repositories.CartRepository, cartCache cache.CartCache, productService *ProductService, orderService *OrderService) *CartService {
	if cartCache == nil {
		cartCache = cache.NoopCartCache{}
	}
	return &CartService{
		repo:           repo,
		cartCache:      cartCache,
		productService: productService,
		orderService:   orderService,
		discount:       zeroDiscount{},
		locks:          make(map[string]*sync.Mutex),
	}
}

// SetDiscountPolicy replaces the discount policy. Intended for wiring, not
// for concurrent use.
func (s *CartService) SetDiscountPolicy(policy DiscountPolicy) {
	s.discount = policy
}

// userLock returns the mutex serializing mutations of one user's cart. Locks
// are never released back; the map grows with the active user population.
func (s *CartService) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

// GetOrCreateCart returns the user's cart, creating an empty one if absent.
// Reads go through the cache; only a brand-new cart touches the store.
func (s *CartService) GetOrCreateCart(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.cartCache.Get(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("cart cache get failed for user %s: %v", userID, err)
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	return s.getOrCreateLocked(ctx, userID)
}

// getOrCreateLocked loads or lazily creates the cart. Caller holds the user lock.
func (s *CartService) getOrCreateLocked(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.repo.GetByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, models.ErrCartNotFound) {
		return nil, err
	}

	cart = &models.Cart{
		ID:            uuid.New().String(),
		UserID:        userID,
		Items:         []models.CartItem{},
		SavedForLater: []models.CartItem{},
	}
	cart.RecomputeTotals()

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to create cart for user %s: %w", userID, err)
	}
	s.cacheSet(ctx, cart)
	return cart, nil
}

// recompute applies the discount policy and re-derives all totals. Called by
// every mutating operation before persisting.
func (s *CartService) recompute(cart *models.Cart) {
	if cart.CouponCode != "" {
		cart.Discount = s.discount.Discount(cart)
	} else {
		cart.Discount = 0
	}
	cart.RecomputeTotals()
}

// saveLocked recomputes totals, persists the cart and refreshes the cache.
func (s *CartService) saveLocked(ctx context.Context, cart *models.Cart) error {
	s.recompute(cart)
	if err := s.repo.Save(ctx, cart); err != nil {
		return fmt.Errorf("failed to save cart for user %s: %w", cart.UserID, err)
	}
	s.cacheSet(ctx, cart)
	return nil
}

func (s *CartService) cacheSet(ctx context.Context, cart *models.Cart) {
	if err := s.cartCache.Set(ctx, cart.UserID, cart); err != nil {
		log.Printf("cart cache set failed for user %s: %v", cart.UserID, err)
	}
}

// AddItem adds quantity of a product to the cart. An existing line keeps its
// original snapshot price and just grows; a new line snapshots the current
// catalog price.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	if quantity < models.MinQuantityPerItem || quantity > models.MaxQuantityPerItem {
		return nil, fmt.Errorf("quantity %d: %w", quantity, models.ErrInvalidQuantity)
	}

	product, err := s.productService.GetProductByID(productID)
	if err != nil {
		return nil, err
	}
	if !product.InStock(quantity) {
		return nil, fmt.Errorf("product %s (requested %d, available %d): %w",
			productID, quantity, product.StockQuantity, models.ErrInsufficientStock)
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	cart, err := s.getOrCreateLocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	if idx := cart.FindItem(productID); idx >= 0 {
		cart.Items[idx].Quantity += quantity
	} else {
		if len(cart.Items) >= models.MaxItemsPerCart {
			return nil, fmt.Errorf("cart for user %s: %w", userID, models.ErrCartFull)
		}
		cart.Items = append(cart.Items, models.CartItem{
			ProductID: productID,
			Price:     product.Price,
			Quantity:  quantity,
		})
	}

	if err := s.saveLocked(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem removes every line for the product. Removing an absent product
// is a no-op, not an error.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	cart, err := s.getOrCreateLocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	cart.Items = kept

	if err := s.saveLocked(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateItemQuantity overwrites the line's quantity (it does not add).
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	if quantity < models.MinQuantityPerItem || quantity > models.MaxQuantityPerItem {
		return nil, fmt.Errorf("quantity %d: %w", quantity, models.ErrInvalidQuantity)
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	cart, err := s.getOrCreateLocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := cart.FindItem(productID)
	if idx < 0 {
		return nil, fmt.Errorf("product %s: %w", productID, models.ErrCartItemNotFound)
	}

	product, err := s.productService.GetProductByID(productID)
	if err != nil {
		return nil, err
	}
	if !product.InStock(quantity) {
		return nil, fmt.Errorf("product %s (requested %d, available %d): %w",
			productID, quantity, product.StockQuantity, models.ErrInsufficientStock)
	}

	cart.Items[idx].Quantity = quantity

	if err := s.saveLocked(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear empties items, saved-for-later and the coupon in one update.
func (s *CartService) Clear(ctx context.Context, userID string) (*models.Cart, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	cart, err := s.getOrCreateLocked(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.clearLocked(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) clearLocked(ctx context.Context, cart *models.Cart) error {
	cart.Items = []models.CartItem{}
	cart.SavedForLater = []models.CartItem{}
	cart.CouponCode = ""
	return s.saveLocked(ctx, cart)
}

// SaveForLater moves the first line for the product out of the active items
// into the saved-for-later list, keeping its quantity and snapshot price.
func (s *CartService) SaveForLater(ctx context.Context, userID, productID string) (*models.Cart, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	cart, err := s.getOrCreateLocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := cart.FindItem(productID)
	if idx < 0 {
		return nil, fmt.Errorf("product %s: %w", productID, models.ErrCartItemNotFound)
	}

	item := cart.Items[idx]
	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	cart.SavedForLater = append(cart.SavedForLater, item)

	if err := s.saveLocked(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// ApplyCoupon stores the code verbatim and recomputes totals through the
// discount policy. No validation rules exist yet.
func (s *CartService) ApplyCoupon(ctx context.Context, userID, code string) (*models.Cart, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	cart, err := s.getOrCreateLocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.CouponCode = code

	if err := s.saveLocked(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Checkout snapshots the cart into an immutable order, then clears the cart.
// Stock is not decremented here; the order.created consumer handles that.
func (s *CartService) Checkout(ctx context.Context, userID string, input CheckoutInput) (*models.Order, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	cart, err := s.getOrCreateLocked(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, fmt.Errorf("cart for user %s: %w", userID, models.ErrCartEmpty)
	}

	items := make([]models.OrderItem, len(cart.Items))
	for i, line := range cart.Items {
		items[i] = models.OrderItem{
			ProductID: line.ProductID,
			Price:     line.Price,
			Quantity:  line.Quantity,
			Subtotal:  line.Subtotal,
		}
	}

	order, err := s.orderService.CreateOrder(
		userID,
		items,
		cart.Total,
		input.ShippingAddress,
		input.BillingAddress,
		input.PaymentMethod,
		input.Notes,
	)
	if err != nil {
		return nil, err
	}

	if err := s.clearLocked(ctx, cart); err != nil {
		// The order exists but the cart survived. Surface the error; a retry
		// of checkout would create a second order, so callers must not retry
		// blindly.
		return nil, fmt.Errorf("order %s created but cart not cleared: %w", order.ID, err)
	}

	return order, nil
}
