package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jmvsevilleja/shop-graphql/internal/models"
)

// statusForError maps the domain error taxonomy onto HTTP statuses: absent
// entities become 404, business-rule violations 400, everything else 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrProductNotFound),
		errors.Is(err, models.ErrCategoryNotFound),
		errors.Is(err, models.ErrCartNotFound),
		errors.Is(err, models.ErrOrderNotFound),
		errors.Is(err, models.ErrCartItemNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrInsufficientStock),
		errors.Is(err, models.ErrTooManyImages),
		errors.Is(err, models.ErrCartEmpty),
		errors.Is(err, models.ErrCartFull),
		errors.Is(err, models.ErrInvalidQuantity),
		errors.Is(err, models.ErrCategorySelfParent),
		errors.Is(err, models.ErrCategoryCycle),
		errors.Is(err, models.ErrCategoryHasChildren),
		errors.Is(err, models.ErrInvalidTransition):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes the standard error envelope for a failed operation.
func respondError(c *fiber.Ctx, err error, message string) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

// validationResponse writes field-level messages for a validator failure.
func validationResponse(c *fiber.Ctx, errorMessages map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
