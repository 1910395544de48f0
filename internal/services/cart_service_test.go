package services_test

import (
	"testing"

	"retromart/internal/kvstore"
	"retromart/internal/models"
	"retromart/internal/repositories"
	"retromart/internal/services"

	"github.com/stretchr/testify/assert"
)

// cartFixture wires a cart service over an in-memory store with a small
// seeded catalog.
type cartFixture struct {
	cart     *services.CartService
	products repositories.ProductRepository
	lines    repositories.CartRepository
}

func newCartFixture(t *testing.T, seed []models.Product) *cartFixture {
	t.Helper()
	store := kvstore.NewMemoryStore()
	productRepo := repositories.NewKVProductRepository(store)
	cartRepo := repositories.NewKVCartRepository(store)
	assert.NoError(t, productRepo.ReplaceAll(seed))
	return &cartFixture{
		cart:     services.NewCartService(cartRepo, productRepo),
		products: productRepo,
		lines:    cartRepo,
	}
}

func (f *cartFixture) stock(t *testing.T, id int) int {
	t.Helper()
	product, err := f.products.GetByID(id)
	assert.NoError(t, err)
	return product.Stock
}

func seedCatalog() []models.Product {
	return []models.Product{
		{ID: 1, Name: "Retro Console", Price: 199.99, Stock: 10},
		{ID: 2, Name: "Arcade Machine", Price: 299.99, Stock: 1},
		{ID: 3, Name: "Pixel Art Poster", Price: 9.99, Stock: 0},
	}
}

func TestCartService_AddToCart(t *testing.T) {
	t.Run("creates a snapshot line without touching stock", func(t *testing.T) {
		f := newCartFixture(t, seedCatalog())

		line, err := f.cart.AddToCart(1)
		assert.NoError(t, err)
		assert.Equal(t, "Retro Console", line.Name)
		assert.Equal(t, 199.99, line.Price)
		assert.Equal(t, 1, line.Quantity)

		// Adding does not reserve: stock is unchanged until the quantity
		// is updated or checkout runs.
		assert.Equal(t, 10, f.stock(t, 1))
	})

	t.Run("increments an existing line", func(t *testing.T) {
		f := newCartFixture(t, seedCatalog())

		_, err := f.cart.AddToCart(1)
		assert.NoError(t, err)
		line, err := f.cart.AddToCart(1)
		assert.NoError(t, err)
		assert.Equal(t, 2, line.Quantity)

		lines, err := f.cart.GetCart()
		assert.NoError(t, err)
		assert.Len(t, lines, 1)
	})

	t.Run("missing product", func(t *testing.T) {
		f := newCartFixture(t, seedCatalog())
		_, err := f.cart.AddToCart(42)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("zero stock", func(t *testing.T) {
		f := newCartFixture(t, seedCatalog())
		_, err := f.cart.AddToCart(3)
		assert.ErrorIs(t, err, services.ErrOutOfStock)
	})

	t.Run("cart already holds all the stock", func(t *testing.T) {
		f := newCartFixture(t, seedCatalog())
		_, err := f.cart.AddToCart(2)
		assert.NoError(t, err)
		_, err = f.cart.AddToCart(2)
		assert.ErrorIs(t, err, services.ErrOutOfStock)
	})
}

func TestCartService_UpdateQuantity(t *testing.T) {
	t.Run("increase reserves stock", func(t *testing.T) {
		f := newCartFixture(t, seedCatalog())
		_, err := f.cart.AddToCart(1)
		assert.NoError(t, err)

		assert.NoError(t, f.cart.UpdateQuantity(0, 4))
		// diff = 3, so stock drops from 10 to 7
		assert.Equal(t, 7, f.stock(t, 1))

		lines, err := f.cart.GetCart()
		assert.NoError(t, err)
		assert.Equal(t, 4, lines[0].Quantity)
	})

	t.Run("decrease releases stock", func(t *testing.T) {
		f := newCartFixture(t, seedCatalog())
		_, err := f.cart.AddToCart(1)
		assert.NoError(t, err)
		assert.NoError(t, f.cart.UpdateQuantity(0, 5))
		assert.Equal(t, 6, f.stock(t, 1))

		assert.NoError(t, f.cart.UpdateQuantity(0, 2))
		// diff = -3, stock climbs back
		assert.Equal(t, 9, f.stock(t, 1))
	})

	t.Run("insufficient stock", func(t *testing.T) {
		f := newCartFixture(t, seedCatalog())
		_, err := f.cart.AddToCart(1)
		assert.NoError(t, err)

		err = f.cart.UpdateQuantity(0, 12)
		assert.ErrorIs(t, err, services.ErrInsufficientStock)
		// Nothing moved
		assert.Equal(t, 10, f.stock(t, 1))
	})

	t.Run("quantity below one", func(t *testing.T) {
		f := newCartFixture(t, seedCatalog())
		_, err := f.cart.AddToCart(1)
		assert.NoError(t, err)
		assert.Error(t, f.cart.UpdateQuantity(0, 0))
	})

	t.Run("index out of range", func(t *testing.T) {
		f := newCartFixture(t, seedCatalog())
		assert.ErrorIs(t, f.cart.UpdateQuantity(0, 2), repositories.ErrNotFound)
		assert.ErrorIs(t, f.cart.UpdateQuantity(-1, 2), repositories.ErrNotFound)
	})
}

func TestCartService_RemoveItem(t *testing.T) {
	f := newCartFixture(t, seedCatalog())
	_, err := f.cart.AddToCart(1)
	assert.NoError(t, err)
	assert.NoError(t, f.cart.UpdateQuantity(0, 4))
	assert.Equal(t, 7, f.stock(t, 1))

	assert.NoError(t, f.cart.RemoveItem(0))
	// The full line quantity returns to stock. Because the initial add
	// never reserved, the restore overshoots by one: 7 + 4 = 11.
	assert.Equal(t, 11, f.stock(t, 1))

	lines, err := f.cart.GetCart()
	assert.NoError(t, err)
	assert.Empty(t, lines)

	assert.ErrorIs(t, f.cart.RemoveItem(0), repositories.ErrNotFound)
}

func TestCartService_Clear(t *testing.T) {
	f := newCartFixture(t, seedCatalog())
	_, err := f.cart.AddToCart(1)
	assert.NoError(t, err)
	assert.NoError(t, f.cart.UpdateQuantity(0, 3))
	_, err = f.cart.AddToCart(2)
	assert.NoError(t, err)

	assert.NoError(t, f.cart.Clear())

	lines, err := f.cart.GetCart()
	assert.NoError(t, err)
	assert.Empty(t, lines)
	// Line 1 reserved 2 via the update; clear returns its quantity of 3.
	assert.Equal(t, 11, f.stock(t, 1))
	// Line 2 never reserved; clear still returns its quantity of 1.
	assert.Equal(t, 2, f.stock(t, 2))
}

func TestCartService_StockNeverNegative(t *testing.T) {
	f := newCartFixture(t, seedCatalog())

	_, err := f.cart.AddToCart(2) // stock 1
	assert.NoError(t, err)
	assert.NoError(t, f.cart.UpdateQuantity(0, 1)) // diff 0

	// Reserving the whole stock leaves zero, never less. The first unit
	// was added without a reservation, so quantity 11 drains stock 10.
	_, err = f.cart.AddToCart(1)
	assert.NoError(t, err)
	assert.NoError(t, f.cart.UpdateQuantity(1, 11))
	assert.Equal(t, 0, f.stock(t, 1))
	assert.GreaterOrEqual(t, f.stock(t, 2), 0)

	err = f.cart.UpdateQuantity(1, 12)
	assert.ErrorIs(t, err, services.ErrInsufficientStock)
	assert.Equal(t, 0, f.stock(t, 1))
}

func TestCartService_RemoveOfDeletedProduct(t *testing.T) {
	f := newCartFixture(t, seedCatalog())
	_, err := f.cart.AddToCart(1)
	assert.NoError(t, err)

	// The product vanishes from the catalog while sitting in the cart
	assert.NoError(t, f.products.Delete(1))
	assert.NoError(t, f.cart.RemoveItem(0))

	lines, err := f.cart.GetCart()
	assert.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCartTotal(t *testing.T) {
	lines := []models.CartLine{
		{Price: 199.99, Quantity: 2},
		{Price: 9.99, Quantity: 1},
	}
	assert.Equal(t, 409.97, services.CartTotal(lines))
	assert.Equal(t, 0.0, services.CartTotal(nil))
}
