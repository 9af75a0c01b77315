package services

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/jmvsevilleja/shop-graphql/internal/models"
	"github.com/jmvsevilleja/shop-graphql/internal/repositories"
)

// EventPublisher publishes order lifecycle events. *rabbitmq.Client satisfies
// it; tests pass nil to skip publishing.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// OrderCreatedEvent is the payload published on order creation. It carries
// the line items so consumers can adjust inventory without a lookup.
type OrderCreatedEvent struct {
	OrderID string             `json:"order_id"`
	UserID  string             `json:"user_id"`
	Status  string             `json:"status"`
	Total   float64            `json:"total"`
	Items   []models.OrderItem `json:"items"`
}

// OrderService handles business logic related to orders.
type OrderService struct {
	repo      repositories.OrderRepository
	publisher EventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(repo repositories.OrderRepository, publisher EventPublisher) *OrderService {
	return &OrderService{
		repo:      repo,
		publisher: publisher,
	}
}

// GetAllOrders retrieves all orders.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.repo.GetAll()
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.repo.GetByID(id)
}

// GetOrdersByUser retrieves all orders placed by a user.
func (s *OrderService) GetOrdersByUser(userID string) ([]models.Order, error) {
	return s.repo.GetByUserID(userID)
}

// CreateOrder creates an immutable PENDING order from a snapshot of line
// items. The items slice is copied; the order never aliases the caller's
// (typically the live cart's) slice.
func (s *OrderService) CreateOrder(userID string, items []models.OrderItem, total float64, shippingAddress, billingAddress, paymentMethod, notes string) (*models.Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("order for user %s: %w", userID, models.ErrCartEmpty)
	}

	snapshot := make([]models.OrderItem, len(items))
	copy(snapshot, items)

	order := &models.Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		Items:           snapshot,
		Total:           total,
		ShippingAddress: shippingAddress,
		BillingAddress:  billingAddress,
		PaymentMethod:   paymentMethod,
		Notes:           notes,
		Status:          models.OrderStatusPending,
	}

	if err := s.repo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.publishCreated(order)

	return order, nil
}

// publishCreated emits order.created. Publishing is best effort: the order is
// already persisted, so a broker failure is logged, not returned.
func (s *OrderService) publishCreated(order *models.Order) {
	if s.publisher == nil {
		return
	}

	event := OrderCreatedEvent{
		OrderID: order.ID,
		UserID:  order.UserID,
		Status:  order.Status,
		Total:   order.Total,
		Items:   order.Items,
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal order created event for order %s: %v", order.ID, err)
		return
	}
	if err := s.publisher.Publish("order.created", body); err != nil {
		log.Printf("Warning: failed to publish order created event for order %s: %v", order.ID, err)
	}
}

// UpdateOrderStatus moves an order through the explicit status machine:
// PENDING -> PAID -> SHIPPED -> DELIVERED, with CANCELLED reachable from
// PENDING or PAID.
func (s *OrderService) UpdateOrderStatus(id string, status string) error {
	order, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}

	if !models.CanTransition(order.Status, status) {
		return fmt.Errorf("order %s: %s -> %s: %w", id, order.Status, status, models.ErrInvalidTransition)
	}

	if err := s.repo.UpdateStatus(id, status); err != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}
	return nil
}
