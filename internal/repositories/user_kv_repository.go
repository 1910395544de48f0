package repositories

import (
	"errors"
	"fmt"

	"retromart/internal/kvstore"
	"retromart/internal/models"
)

// keyRegistrations is the fixed key holding the full list of registered
// users as one JSON blob.
const keyRegistrations = "RegistrationData"

// KVUserRepository is a key-value store implementation of UserRepository.
type KVUserRepository struct {
	store kvstore.Store
}

// NewKVUserRepository creates a new instance of KVUserRepository.
func NewKVUserRepository(store kvstore.Store) *KVUserRepository {
	return &KVUserRepository{store: store}
}

// GetAll returns all registered users in registration order. An absent key
// means nobody has registered yet.
func (r *KVUserRepository) GetAll() ([]models.User, error) {
	var users []models.User
	if err := r.store.Get(keyRegistrations, &users); err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return []models.User{}, nil
		}
		return nil, fmt.Errorf("failed to load registrations: %w", err)
	}
	return users, nil
}

// GetByTRN returns the user registered under the given TRN.
func (r *KVUserRepository) GetByTRN(trn string) (*models.User, error) {
	users, err := r.GetAll()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].TRN == trn {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("user with TRN %s: %w", trn, ErrNotFound)
}

// Create appends a new user to the registration list. Uniqueness of the
// TRN is the caller's responsibility; users are never deleted.
func (r *KVUserRepository) Create(user *models.User) error {
	users, err := r.GetAll()
	if err != nil {
		return err
	}
	users = append(users, *user)
	if err := r.store.Set(keyRegistrations, users); err != nil {
		return fmt.Errorf("failed to save registrations: %w", err)
	}
	return nil
}
