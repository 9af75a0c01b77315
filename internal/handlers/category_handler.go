package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jmvsevilleja/shop-graphql/internal/models"
	"github.com/jmvsevilleja/shop-graphql/internal/services"
)

// CategoryHandler handles HTTP requests for the category tree.
type CategoryHandler struct {
	service  *services.CategoryService
	validate *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the category routes. Mutating routes take the
// admin guard.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router, admin fiber.Handler) {
	routes := router.Group("/categories")
	routes.Get("/", h.HandleGetAll)
	routes.Get("/roots", h.HandleGetRoots)
	routes.Get("/slug/:slug", h.HandleGetBySlug)
	routes.Get("/:id", h.HandleGetByID)
	routes.Get("/:id/children", h.HandleGetChildren)
	routes.Get("/:id/path", h.HandleGetPath)
	routes.Post("/", admin, h.HandleCreate)
	routes.Put("/reorder", admin, h.HandleReorder)
	routes.Put("/:id", admin, h.HandleUpdate)
	routes.Delete("/:id", admin, h.HandleDelete)
}

// HandleGetAll lists all active categories in sort order.
func (h *CategoryHandler) HandleGetAll(c *fiber.Ctx) error {
	categories, err := h.service.GetAllCategories()
	if err != nil {
		return respondError(c, err, "Could not retrieve categories")
	}
	return c.JSON(categories)
}

// HandleGetRoots lists the active root categories.
func (h *CategoryHandler) HandleGetRoots(c *fiber.Ctx) error {
	categories, err := h.service.GetRootCategories()
	if err != nil {
		return respondError(c, err, "Could not retrieve root categories")
	}
	return c.JSON(categories)
}

// HandleGetByID retrieves a single category.
func (h *CategoryHandler) HandleGetByID(c *fiber.Ctx) error {
	category, err := h.service.GetCategoryByID(c.Params("id"))
	if err != nil {
		return respondError(c, err, "Could not retrieve category")
	}
	return c.JSON(category)
}

// HandleGetBySlug retrieves a single active category by slug.
func (h *CategoryHandler) HandleGetBySlug(c *fiber.Ctx) error {
	category, err := h.service.GetCategoryBySlug(c.Params("slug"))
	if err != nil {
		return respondError(c, err, "Could not retrieve category")
	}
	return c.JSON(category)
}

// HandleGetChildren lists a category's active direct children.
func (h *CategoryHandler) HandleGetChildren(c *fiber.Ctx) error {
	categories, err := h.service.GetSubcategories(c.Params("id"))
	if err != nil {
		return respondError(c, err, "Could not retrieve subcategories")
	}
	return c.JSON(categories)
}

// HandleGetPath returns the root-first ancestor chain of a category.
func (h *CategoryHandler) HandleGetPath(c *fiber.Ctx) error {
	path, err := h.service.GetCategoryPath(c.Params("id"))
	if err != nil {
		return respondError(c, err, "Could not retrieve category path")
	}
	return c.JSON(path)
}

// HandleCreate creates a new category.
func (h *CategoryHandler) HandleCreate(c *fiber.Ctx) error {
	var category models.Category
	if err := c.BodyParser(&category); err != nil {
		log.Printf("Error parsing category request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(category); err != nil {
		return validationResponse(c, validationErrors(err))
	}

	if err := h.service.CreateCategory(&category); err != nil {
		log.Printf("Error creating category: %v", err)
		return respondError(c, err, "Could not create category")
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleUpdate updates an existing category.
func (h *CategoryHandler) HandleUpdate(c *fiber.Ctx) error {
	var category models.Category
	if err := c.BodyParser(&category); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	category.ID = c.Params("id")

	if err := h.validate.Struct(category); err != nil {
		return validationResponse(c, validationErrors(err))
	}

	if err := h.service.UpdateCategory(&category); err != nil {
		log.Printf("Error updating category %s: %v", category.ID, err)
		return respondError(c, err, "Could not update category")
	}
	return c.JSON(category)
}

// HandleDelete deletes a category without subcategories.
func (h *CategoryHandler) HandleDelete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteCategory(id); err != nil {
		log.Printf("Error deleting category %s: %v", id, err)
		return respondError(c, err, "Could not delete category")
	}
	return c.JSON(fiber.Map{
		"message": "Category deleted successfully",
	})
}

// HandleReorder assigns sequential sort orders to the posted id list.
func (h *CategoryHandler) HandleReorder(c *fiber.Ctx) error {
	var body struct {
		IDs []string `json:"ids" validate:"required,min=1"`
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

	categories, err := h.service.ReorderCategories(body.IDs)
	if err != nil {
		return respondError(c, err, "Could not reorder categories")
	}
	return c.JSON(categories)
}
