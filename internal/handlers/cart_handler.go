package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jmvsevilleja/shop-graphql/internal/middleware"
	"github.com/jmvsevilleja/shop-graphql/internal/services"
)

// CartHandler handles HTTP requests for the caller's cart. The owner is
// always the authenticated user; cart ids are never taken from the request.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes. All of them require auth.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	routes := router.Group("/cart")
	routes.Get("/", h.HandleGetCart)
	routes.Delete("/", h.HandleClear)
	routes.Post("/items", h.HandleAddItem)
	routes.Put("/items/:productId", h.HandleUpdateItemQuantity)
	routes.Delete("/items/:productId", h.HandleRemoveItem)
	routes.Post("/items/:productId/save-for-later", h.HandleSaveForLater)
	routes.Post("/coupon", h.HandleApplyCoupon)
	routes.Post("/checkout", h.HandleCheckout)
}

// HandleGetCart returns the caller's cart, creating it lazily.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.service.GetOrCreateCart(c.UserContext(), middleware.UserID(c))
	if err != nil {
		log.Printf("Error getting cart: %v", err)
		return respondError(c, err, "Could not retrieve cart")
	}
	return c.JSON(cart)
}

// AddItemRequest represents the request body for adding a cart item.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// HandleAddItem adds a product to the caller's cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationResponse(c, validationErrors(err))
	}

	cart, err := h.service.AddItem(c.UserContext(), middleware.UserID(c), req.ProductID, req.Quantity)
	if err != nil {
		log.Printf("Error adding item to cart: %v", err)
		return respondError(c, err, "Could not add item to cart")
	}
	return c.JSON(cart)
}

// HandleUpdateItemQuantity overwrites a line's quantity.
func (h *CartHandler) HandleUpdateItemQuantity(c *fiber.Ctx) error {
	var req struct {
		Quantity int `json:"quantity" validate:"required,gte=1"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationResponse(c, validationErrors(err))
	}

	cart, err := h.service.UpdateItemQuantity(c.UserContext(), middleware.UserID(c), c.Params("productId"), req.Quantity)
	if err != nil {
		log.Printf("Error updating cart item quantity: %v", err)
		return respondError(c, err, "Could not update item quantity")
	}
	return c.JSON(cart)
}

// HandleRemoveItem removes every line for a product. Idempotent.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	cart, err := h.service.RemoveItem(c.UserContext(), middleware.UserID(c), c.Params("productId"))
	if err != nil {
		log.Printf("Error removing cart item: %v", err)
		return respondError(c, err, "Could not remove item from cart")
	}
	return c.JSON(cart)
}

// HandleSaveForLater moves a line to the saved-for-later list.
func (h *CartHandler) HandleSaveForLater(c *fiber.Ctx) error {
	cart, err := h.service.SaveForLater(c.UserContext(), middleware.UserID(c), c.Params("productId"))
	if err != nil {
		log.Printf("Error saving cart item for later: %v", err)
		return respondError(c, err, "Could not save item for later")
	}
	return c.JSON(cart)
}

// HandleApplyCoupon stores a coupon code on the cart.
func (h *CartHandler) HandleApplyCoupon(c *fiber.Ctx) error {
	var req struct {
		Code string `json:"code" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationResponse(c, validationErrors(err))
	}

	cart, err := h.service.ApplyCoupon(c.UserContext(), middleware.UserID(c), req.Code)
	if err != nil {
		log.Printf("Error applying coupon: %v", err)
		return respondError(c, err, "Could not apply coupon")
	}
	return c.JSON(cart)
}

// HandleClear empties the caller's cart.
func (h *CartHandler) HandleClear(c *fiber.Ctx) error {
	cart, err := h.service.Clear(c.UserContext(), middleware.UserID(c))
	if err != nil {
		log.Printf("Error clearing cart: %v", err)
		return respondError(c, err, "Could not clear cart")
	}
	return c.JSON(cart)
}

// HandleCheckout converts the cart into an order and empties the cart.
func (h *CartHandler) HandleCheckout(c *fiber.Ctx) error {
	var input services.CheckoutInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(input); err != nil {
		return validationResponse(c, validationErrors(err))
	}

	order, err := h.service.Checkout(c.UserContext(), middleware.UserID(c), input)
	if err != nil {
		log.Printf("Error during checkout: %v", err)
		return respondError(c, err, "Could not complete checkout")
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}
