package models

import "time"

// Cart limits. CartExpiryDays is documented behavior only: an abandoned cart
// is considered expired after that many days of inactivity, but no background
// job reaps it.
const (
	MaxItemsPerCart    = 50
	MaxQuantityPerItem = 99
	MinQuantityPerItem = 1
	CartExpiryDays     = 30
)

// CartItem is a single product line. Price is a snapshot taken when the item
// was added and does not follow later catalog price changes.
type CartItem struct {
	ProductID string  `json:"product_id" bson:"product_id"`
	Price     float64 `json:"price" bson:"price"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	Subtotal  float64 `json:"subtotal" bson:"subtotal"`
}

// Cart is the per-user mutable cart aggregate, stored as a single document.
type Cart struct {
	ID             string     `json:"id" bson:"_id"`
	UserID         string     `json:"user_id" bson:"user_id"`
	Items          []CartItem `json:"items" bson:"items"`
	SavedForLater  []CartItem `json:"saved_for_later" bson:"saved_for_later"`
	CouponCode     string     `json:"coupon_code,omitempty" bson:"coupon_code,omitempty"`
	Subtotal       float64    `json:"subtotal" bson:"subtotal"`
	Discount       float64    `json:"discount" bson:"discount"`
	Total          float64    `json:"total" bson:"total"`
	IsCheckedOut   bool       `json:"is_checked_out" bson:"is_checked_out"`
	LastActivityAt time.Time  `json:"last_activity_at" bson:"last_activity_at"`
	CreatedAt      time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" bson:"updated_at"`
}

// RecomputeTotals re-derives every line subtotal and the cart totals from the
// current items and discount. Every mutating operation must call this before
// persisting; the invariant lives at the call site, not in a storage hook.
func (c *Cart) RecomputeTotals() {
	c.Subtotal = 0
	for i := range c.Items {
		c.Items[i].Subtotal = c.Items[i].Price * float64(c.Items[i].Quantity)
		c.Subtotal += c.Items[i].Subtotal
	}

	total := c.Subtotal - c.Discount
	if total < 0 {
		total = 0
	}
	c.Total = total
}

// ItemCount is the total quantity across all active lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// FindItem returns the index of the first line for the given product, or -1.
func (c *Cart) FindItem(productID string) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}
