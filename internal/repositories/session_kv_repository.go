package repositories

import (
	"errors"
	"fmt"

	"retromart/internal/kvstore"
	"retromart/internal/models"
)

// keySession is the fixed key holding the active login session.
const keySession = "currentUser"

// KVSessionRepository is a key-value store implementation of
// SessionRepository.
type KVSessionRepository struct {
	store kvstore.Store
}

// NewKVSessionRepository creates a new instance of KVSessionRepository.
func NewKVSessionRepository(store kvstore.Store) *KVSessionRepository {
	return &KVSessionRepository{store: store}
}

// Get returns the stored session, or (nil, nil) when nobody is logged in.
func (r *KVSessionRepository) Get() (*models.Session, error) {
	var session models.Session
	if err := r.store.Get(keySession, &session); err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &session, nil
}

// Set stores the session, replacing any previous one.
func (r *KVSessionRepository) Set(session *models.Session) error {
	if err := r.store.Set(keySession, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Clear removes the stored session unconditionally.
func (r *KVSessionRepository) Clear() error {
	if err := r.store.Remove(keySession); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
