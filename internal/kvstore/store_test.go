package kvstore_test

import (
	"path/filepath"
	"testing"

	"retromart/internal/kvstore"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// runStoreTests exercises the Store contract shared by all backends.
func runStoreTests(t *testing.T, store kvstore.Store) {
	t.Helper()

	// Absent key
	var out record
	err := store.Get("missing", &out)
	assert.Error(t, err)
	assert.ErrorIs(t, err, kvstore.ErrKeyNotFound)

	// Set and get round trip
	err = store.Set("rec", record{Name: "console", Count: 3})
	assert.NoError(t, err)
	err = store.Get("rec", &out)
	assert.NoError(t, err)
	assert.Equal(t, record{Name: "console", Count: 3}, out)

	// Overwrite
	err = store.Set("rec", record{Name: "console", Count: 7})
	assert.NoError(t, err)
	err = store.Get("rec", &out)
	assert.NoError(t, err)
	assert.Equal(t, 7, out.Count)

	// Slices round trip too; absent keys stay distinct per key
	err = store.Set("list", []record{{Name: "a"}, {Name: "b"}})
	assert.NoError(t, err)
	var list []record
	err = store.Get("list", &list)
	assert.NoError(t, err)
	assert.Len(t, list, 2)

	// Remove, then removing again is a no-op
	err = store.Remove("rec")
	assert.NoError(t, err)
	err = store.Get("rec", &out)
	assert.ErrorIs(t, err, kvstore.ErrKeyNotFound)
	err = store.Remove("rec")
	assert.NoError(t, err)
}

func TestMemoryStore(t *testing.T) {
	runStoreTests(t, kvstore.NewMemoryStore())
}

func TestGormStore(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	assert.NoError(t, err)
	store, err := kvstore.NewGormStore(db)
	assert.NoError(t, err)
	runStoreTests(t, store)
}

func TestGormStoreDurability(t *testing.T) {
	// Values written through one store instance must be visible through a
	// fresh instance over the same database file.
	path := filepath.Join(t.TempDir(), "store.db")

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	assert.NoError(t, err)
	store, err := kvstore.NewGormStore(db)
	assert.NoError(t, err)
	assert.NoError(t, store.Set("rec", record{Name: "cartridge", Count: 20}))

	reopened, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	assert.NoError(t, err)
	store2, err := kvstore.NewGormStore(reopened)
	assert.NoError(t, err)

	var out record
	assert.NoError(t, store2.Get("rec", &out))
	assert.Equal(t, record{Name: "cartridge", Count: 20}, out)
}
