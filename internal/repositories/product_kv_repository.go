package repositories

import (
	"errors"
	"fmt"

	"retromart/internal/kvstore"
	"retromart/internal/models"
)

// keyProducts is the fixed key holding the catalog as one JSON blob.
const keyProducts = "AllProducts"

// KVProductRepository is a key-value store implementation of
// ProductRepository.
type KVProductRepository struct {
	store kvstore.Store
}

// NewKVProductRepository creates a new instance of KVProductRepository.
func NewKVProductRepository(store kvstore.Store) *KVProductRepository {
	return &KVProductRepository{store: store}
}

// GetAll returns all products in insertion order.
func (r *KVProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.store.Get(keyProducts, &products); err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return []models.Product{}, nil
		}
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return products, nil
}

// GetByID returns a product by its ID.
func (r *KVProductRepository) GetByID(id int) (*models.Product, error) {
	products, err := r.GetAll()
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, fmt.Errorf("product with ID %d: %w", id, ErrNotFound)
}

// Create appends a new product, assigning the next monotonic ID
// (max existing + 1, or 1 for an empty catalog).
func (r *KVProductRepository) Create(product *models.Product) error {
	products, err := r.GetAll()
	if err != nil {
		return err
	}

	next := 1
	for _, p := range products {
		if p.ID >= next {
			next = p.ID + 1
		}
	}
	product.ID = next

	products = append(products, *product)
	return r.ReplaceAll(products)
}

// Update overwrites the product with the same ID. Absent IDs are ignored.
func (r *KVProductRepository) Update(product models.Product) error {
	products, err := r.GetAll()
	if err != nil {
		return err
	}
	for i := range products {
		if products[i].ID == product.ID {
			products[i] = product
			return r.ReplaceAll(products)
		}
	}
	return nil
}

// Delete removes the product with the given ID. Absent IDs are ignored.
func (r *KVProductRepository) Delete(id int) error {
	products, err := r.GetAll()
	if err != nil {
		return err
	}
	kept := products[:0]
	changed := false
	for _, p := range products {
		if p.ID == id {
			changed = true
			continue
		}
		kept = append(kept, p)
	}
	if !changed {
		return nil
	}
	return r.ReplaceAll(kept)
}

// ReplaceAll overwrites the whole catalog.
func (r *KVProductRepository) ReplaceAll(products []models.Product) error {
	if err := r.store.Set(keyProducts, products); err != nil {
		return fmt.Errorf("failed to save products: %w", err)
	}
	return nil
}
