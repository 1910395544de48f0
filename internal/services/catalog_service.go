package services

import (
	"fmt"

	"retromart/internal/models"
	"retromart/internal/repositories"
)

// CatalogService handles business logic for the product catalog and its
// stock ledger.
type CatalogService struct {
	repo repositories.ProductRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo repositories.ProductRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// ListProducts retrieves all products in insertion order.
func (s *CatalogService) ListProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProduct retrieves a single product by its ID.
func (s *CatalogService) GetProduct(id int) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct adds a product to the catalog. The repository assigns the
// next monotonic ID.
func (s *CatalogService) CreateProduct(product *models.Product) error {
	if product.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	if product.Stock < 0 {
		return fmt.Errorf("stock must not be negative")
	}
	return s.repo.Create(product)
}

// UpdateProduct overwrites the product with the same ID. An absent ID is
// silently ignored, matching the original storefront's admin editor.
func (s *CatalogService) UpdateProduct(product models.Product) error {
	if product.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	if product.Stock < 0 {
		return fmt.Errorf("stock must not be negative")
	}
	return s.repo.Update(product)
}

// DeleteProduct removes a product. An absent ID is silently ignored.
func (s *CatalogService) DeleteProduct(id int) error {
	return s.repo.Delete(id)
}

// SeedDefaults writes the given products only when the catalog is empty,
// so a restart never resets stock that carts and checkouts have mutated.
func (s *CatalogService) SeedDefaults(products []models.Product) error {
	existing, err := s.repo.GetAll()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	return s.repo.ReplaceAll(products)
}
