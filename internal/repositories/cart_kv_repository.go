package repositories

import (
	"errors"
	"fmt"

	"retromart/internal/kvstore"
	"retromart/internal/models"
)

// keyCart is the fixed key holding the active cart as one JSON blob.
const keyCart = "cart"

// KVCartRepository is a key-value store implementation of CartRepository.
type KVCartRepository struct {
	store kvstore.Store
}

// NewKVCartRepository creates a new instance of KVCartRepository.
func NewKVCartRepository(store kvstore.Store) *KVCartRepository {
	return &KVCartRepository{store: store}
}

// Get returns the current cart lines. An absent key is an empty cart.
func (r *KVCartRepository) Get() ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := r.store.Get(keyCart, &lines); err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return []models.CartLine{}, nil
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return lines, nil
}

// Save overwrites the cart.
func (r *KVCartRepository) Save(lines []models.CartLine) error {
	if err := r.store.Set(keyCart, lines); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Clear removes the cart key entirely.
func (r *KVCartRepository) Clear() error {
	if err := r.store.Remove(keyCart); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
