package repositories

import "retromart/internal/models"

// CartRepository defines the interface for cart data access. The cart is
// a single list of lines; an absent key is an empty cart.
type CartRepository interface {
	Get() ([]models.CartLine, error)
	Save(lines []models.CartLine) error
	Clear() error
}
