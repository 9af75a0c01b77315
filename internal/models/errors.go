package models

import "errors"

// Sentinel errors shared by services and repositories. Handlers map them to
// HTTP statuses with errors.Is, so wrapped variants keep working.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCartNotFound     = errors.New("cart not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrCartItemNotFound = errors.New("item not found in cart")

	ErrInsufficientStock   = errors.New("not enough stock")
	ErrTooManyImages       = errors.New("too many product images")
	ErrCartEmpty           = errors.New("cart is empty")
	ErrCartFull            = errors.New("cart has reached maximum item limit")
	ErrInvalidQuantity     = errors.New("invalid item quantity")
	ErrCategorySelfParent  = errors.New("category cannot be its own parent")
	ErrCategoryCycle       = errors.New("category parent chain contains a cycle")
	ErrCategoryHasChildren = errors.New("cannot delete category with subcategories")
	ErrInvalidTransition   = errors.New("invalid order status transition")
)
