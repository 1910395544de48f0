package models

// Product represents a product in the catalog. Stock is the single source
// of truth for availability: cart reservations and checkout both mutate it.
type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name" validate:"required,min=3,max=100"`
	Price       float64 `json:"price" validate:"gte=0"`
	Description string  `json:"description" validate:"omitempty,max=500"`
	Image       string  `json:"image" validate:"omitempty,max=255"`
	Stock       int     `json:"stock" validate:"gte=0"`
}
