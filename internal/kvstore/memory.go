package kvstore

import (
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore is an in-memory implementation of Store. It round-trips
// values through JSON like the durable backends, so tests exercise the
// same serialization behavior. Contents do not survive a restart.
type MemoryStore struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewMemoryStore creates a new instance of MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string][]byte),
	}
}

// Get unmarshals the value stored under key into out.
func (s *MemoryStore) Get(key string, out interface{}) error {
	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("get %q: %w", key, ErrKeyNotFound)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode value for key %q: %w", key, err)
	}
	return nil
}

// Set stores value under key as JSON.
func (s *MemoryStore) Set(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for key %q: %w", key, err)
	}

	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
	return nil
}

// Remove deletes the key.
func (s *MemoryStore) Remove(key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}
