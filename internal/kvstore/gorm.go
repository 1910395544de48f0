package kvstore

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// kvRecord is the single table behind GormStore: one row per key, with the
// value held as JSON text.
type kvRecord struct {
	Key   string `gorm:"primaryKey;type:varchar(255)"`
	Value []byte
}

func (kvRecord) TableName() string {
	return "kv_records"
}

// GormStore is a durable implementation of Store on top of a GORM
// database (SQLite file by default, PostgreSQL via DSN). Each Set is a
// single-row upsert; durability across restarts comes from the database.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new instance of GormStore and migrates the
// backing table.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&kvRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate kv_records: %w", err)
	}
	return &GormStore{db: db}, nil
}

// Get unmarshals the value stored under key into out.
func (s *GormStore) Get(key string, out interface{}) error {
	var rec kvRecord
	if err := s.db.First(&rec, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("get %q: %w", key, ErrKeyNotFound)
		}
		return fmt.Errorf("failed to read key %q: %w", key, err)
	}
	if err := json.Unmarshal(rec.Value, out); err != nil {
		return fmt.Errorf("failed to decode value for key %q: %w", key, err)
	}
	return nil
}

// Set stores value under key as JSON, replacing any previous value.
func (s *GormStore) Set(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for key %q: %w", key, err)
	}
	rec := kvRecord{Key: key, Value: raw}
	if err := s.db.Save(&rec).Error; err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

// Remove deletes the key. Removing an absent key is a no-op.
func (s *GormStore) Remove(key string) error {
	if err := s.db.Delete(&kvRecord{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("failed to remove key %q: %w", key, err)
	}
	return nil
}
