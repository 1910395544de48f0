package handlers

import (
	"errors"
	"fmt"
	"log"

	"retromart/internal/repositories"
	"retromart/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the cart.
type CartHandler struct {
	service *services.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{service: service}
}

// RegisterRoutes registers the cart routes.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Put("/items/:index", h.HandleUpdateQuantity)
	cartRoutes.Delete("/items/:index", h.HandleRemoveItem)
	cartRoutes.Delete("/", h.HandleClearCart)
}

// HandleGetCart returns the cart lines and their running total.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	lines, err := h.service.GetCart()
	if err != nil {
		log.Printf("Error loading cart: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"items": lines,
		"total": services.CartTotal(lines),
	})
}

// AddItemRequest represents the request body for adding to the cart.
type AddItemRequest struct {
	ProductID int `json:"product_id"`
}

// HandleAddItem puts one unit of a product into the cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing add item request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	line, err := h.service.AddToCart(req.ProductID)
	if err != nil {
		return h.cartError(c, err, "Could not add item to cart")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": fmt.Sprintf("%s added to cart!", line.Name),
		"item":    line,
	})
}

// UpdateQuantityRequest represents the request body for a quantity change.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// HandleUpdateQuantity sets the quantity of the cart line at the index.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Cart line index must be an integer",
		})
	}

	var req UpdateQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing quantity request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.service.UpdateQuantity(index, req.Quantity); err != nil {
		return h.cartError(c, err, "Could not update quantity")
	}
	return c.JSON(fiber.Map{
		"message": "Quantity updated",
	})
}

// HandleRemoveItem deletes the cart line at the index and returns its
// quantity to stock.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Cart line index must be an integer",
		})
	}
	if err := h.service.RemoveItem(index); err != nil {
		return h.cartError(c, err, "Could not remove item")
	}
	return c.JSON(fiber.Map{
		"message": "Item removed",
	})
}

// HandleClearCart empties the cart and restores all reserved stock.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	if err := h.service.Clear(); err != nil {
		log.Printf("Error clearing cart: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not clear cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Cart cleared",
	})
}

// cartError maps cart service errors to HTTP status codes.
func (h *CartHandler) cartError(c *fiber.Ctx, err error, message string) error {
	log.Printf("%s: %v", message, err)
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrOutOfStock), errors.Is(err, services.ErrInsufficientStock):
		status = fiber.StatusConflict
	case err.Error() == "quantity must be at least 1":
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}
