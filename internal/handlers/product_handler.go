package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jmvsevilleja/shop-graphql/internal/models"
	"github.com/jmvsevilleja/shop-graphql/internal/repositories"
	"github.com/jmvsevilleja/shop-graphql/internal/services"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes. Mutating routes take the
// admin guard.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, admin fiber.Handler) {
	routes := router.Group("/products")
	routes.Get("/", h.HandleGetProducts)
	routes.Get("/featured", h.HandleGetFeatured)
	routes.Get("/search", h.HandleSearch)
	routes.Get("/slug/:slug", h.HandleGetBySlug)
	routes.Get("/:id", h.HandleGetByID)
	routes.Get("/:id/stock", h.HandleCheckStock)
	routes.Post("/:id/rating", h.HandleUpdateRating)
	routes.Post("/", admin, h.HandleCreate)
	routes.Put("/:id", admin, h.HandleUpdate)
	routes.Delete("/:id", admin, h.HandleDelete)
	routes.Patch("/:id/stock", admin, h.HandleUpdateStock)
}

func pagination(c *fiber.Ctx) repositories.Pagination {
	return repositories.Pagination{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", 10),
	}
}

// HandleGetProducts lists products with optional filters and pagination.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	filter := repositories.ProductFilter{
		CategoryID: c.Query("category_id"),
		Search:     c.Query("search"),
		MinPrice:   c.QueryFloat("min_price"),
		MaxPrice:   c.QueryFloat("max_price"),
		InStock:    c.QueryBool("in_stock"),
		Featured:   c.QueryBool("featured"),
	}

	products, total, err := h.service.GetAllProducts(filter, pagination(c))
	if err != nil {
		log.Printf("Error getting products: %v", err)
		return respondError(c, err, "Could not retrieve products")
	}
	return c.JSON(fiber.Map{
		"items": products,
		"total": total,
	})
}

// HandleGetFeatured lists featured products.
func (h *ProductHandler) HandleGetFeatured(c *fiber.Ctx) error {
	products, err := h.service.GetFeaturedProducts(c.QueryInt("limit", 8))
	if err != nil {
		return respondError(c, err, "Could not retrieve featured products")
	}
	return c.JSON(products)
}

// HandleSearch runs a text search over the catalog.
func (h *ProductHandler) HandleSearch(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Query parameter 'q' is required",
		})
	}

	products, total, err := h.service.SearchProducts(query, pagination(c))
	if err != nil {
		return respondError(c, err, "Could not search products")
	}
	return c.JSON(fiber.Map{
		"items": products,
		"total": total,
	})
}

// HandleGetByID retrieves a single product.
func (h *ProductHandler) HandleGetByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.Params("id"))
	if err != nil {
		return respondError(c, err, "Could not retrieve product")
	}
	return c.JSON(product)
}

// HandleGetBySlug retrieves a single active product by slug.
func (h *ProductHandler) HandleGetBySlug(c *fiber.Ctx) error {
	product, err := h.service.GetProductBySlug(c.Params("slug"))
	if err != nil {
		return respondError(c, err, "Could not retrieve product")
	}
	return c.JSON(product)
}

// HandleCreate creates a new product.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		log.Printf("Error parsing product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(product); err != nil {
		return validationResponse(c, validationErrors(err))
	}

	if err := h.service.CreateProduct(&product); err != nil {
		log.Printf("Error creating product: %v", err)
		return respondError(c, err, "Could not create product")
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdate updates an existing product.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	product.ID = c.Params("id")

	if err := h.validate.Struct(product); err != nil {
		return validationResponse(c, validationErrors(err))
	}

	if err := h.service.UpdateProduct(&product); err != nil {
		log.Printf("Error updating product %s: %v", product.ID, err)
		return respondError(c, err, "Could not update product")
	}
	return c.JSON(product)
}

// HandleDelete deletes a product.
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteProduct(id); err != nil {
		log.Printf("Error deleting product %s: %v", id, err)
		return respondError(c, err, "Could not delete product")
	}
	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
	})
}

// HandleUpdateStock adjusts a product's stock by a signed delta.
func (h *ProductHandler) HandleUpdateStock(c *fiber.Ctx) error {
	var body struct {
		Delta int `json:"delta"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	product, err := h.service.UpdateStock(c.Params("id"), body.Delta)
	if err != nil {
		return respondError(c, err, "Could not update stock")
	}
	return c.JSON(product)
}

// HandleCheckStock reports whether a quantity is available.
func (h *ProductHandler) HandleCheckStock(c *fiber.Ctx) error {
	quantity := c.QueryInt("quantity", 1)
	available, err := h.service.CheckStock(c.Params("id"), quantity)
	if err != nil {
		return respondError(c, err, "Could not check stock")
	}
	return c.JSON(fiber.Map{
		"available": available,
	})
}

// HandleUpdateRating folds a review rating into the product's average.
func (h *ProductHandler) HandleUpdateRating(c *fiber.Ctx) error {
	var body struct {
		Rating float64 `json:"rating" validate:"required,gte=0,lte=5"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(body); err != nil {
		return validationResponse(c, validationErrors(err))
	}

	product, err := h.service.UpdateRating(c.Params("id"), body.Rating)
	if err != nil {
		return respondError(c, err, "Could not update rating")
	}
	return c.JSON(product)
}
