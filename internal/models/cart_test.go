package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmvsevilleja/shop-graphql/internal/models"
)

func TestCartRecomputeTotals(t *testing.T) {
	cart := &models.Cart{
		Items: []models.CartItem{
			{ProductID: "p1", Price: 10.0, Quantity: 2},
			{ProductID: "p2", Price: 5.5, Quantity: 3},
		},
	}

	cart.RecomputeTotals()

	assert.InDelta(t, 20.0, cart.Items[0].Subtotal, 1e-9)
	assert.InDelta(t, 16.5, cart.Items[1].Subtotal, 1e-9)
	assert.InDelta(t, 36.5, cart.Subtotal, 1e-9)
	assert.InDelta(t, 36.5, cart.Total, 1e-9)
}

func TestCartRecomputeTotals_DiscountFloor(t *testing.T) {
	cart := &models.Cart{
		Items:    []models.CartItem{{ProductID: "p1", Price: 10.0, Quantity: 1}},
		Discount: 25.0,
	}

	cart.RecomputeTotals()

	// A discount larger than the subtotal floors the total at zero instead of
	// going negative.
	assert.InDelta(t, 10.0, cart.Subtotal, 1e-9)
	assert.InDelta(t, 0.0, cart.Total, 1e-9)
}

func TestCartRecomputeTotals_Empty(t *testing.T) {
	cart := &models.Cart{Items: []models.CartItem{}}

	cart.RecomputeTotals()

	assert.Zero(t, cart.Subtotal)
	assert.Zero(t, cart.Total)
	assert.Zero(t, cart.ItemCount())
}

func TestCartFindItem(t *testing.T) {
	cart := &models.Cart{
		Items: []models.CartItem{
			{ProductID: "p1", Quantity: 1},
			{ProductID: "p2", Quantity: 2},
		},
	}

	assert.Equal(t, 0, cart.FindItem("p1"))
	assert.Equal(t, 1, cart.FindItem("p2"))
	assert.Equal(t, -1, cart.FindItem("missing"))
}

func TestOrderCanTransition(t *testing.T) {
	assert.True(t, models.CanTransition(models.OrderStatusPending, models.OrderStatusPaid))
	assert.True(t, models.CanTransition(models.OrderStatusPending, models.OrderStatusCancelled))
	assert.True(t, models.CanTransition(models.OrderStatusPaid, models.OrderStatusShipped))
	assert.True(t, models.CanTransition(models.OrderStatusPaid, models.OrderStatusCancelled))
	assert.True(t, models.CanTransition(models.OrderStatusShipped, models.OrderStatusDelivered))

	assert.False(t, models.CanTransition(models.OrderStatusPending, models.OrderStatusDelivered))
	assert.False(t, models.CanTransition(models.OrderStatusShipped, models.OrderStatusCancelled))
	assert.False(t, models.CanTransition(models.OrderStatusDelivered, models.OrderStatusPaid))
	assert.False(t, models.CanTransition(models.OrderStatusCancelled, models.OrderStatusPending))
}
