package repositories

import "retromart/internal/models"

// ProductRepository defines the interface for catalog data access.
//
// Update and Delete are silent no-ops when the id is absent. That matches
// the behavior of the demo this service reimplements; callers that care
// should check existence with GetByID first.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id int) (*models.Product, error)
	Create(product *models.Product) error
	Update(product models.Product) error
	Delete(id int) error
	// ReplaceAll overwrites the whole catalog in one write. Used for stock
	// mutations, which the cart and checkout flows apply to the loaded
	// slice and persist back.
	ReplaceAll(products []models.Product) error
}
