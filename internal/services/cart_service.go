package services

import (
	"fmt"

	"retromart/internal/models"
	"retromart/internal/repositories"

	"github.com/shopspring/decimal"
)

// CartService handles the cart lines and their stock reservations. Cart
// and catalog mutations both flow through this one service, but each
// operation still performs two independent key-value writes; a crash
// between them can leave stock and cart inconsistent. Acceptable for the
// single-user demo this reimplements.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart returns the current cart lines.
func (s *CartService) GetCart() ([]models.CartLine, error) {
	return s.cartRepo.Get()
}

// AddToCart puts one unit of the product into the cart, creating the line
// or incrementing its quantity. Fails with ErrOutOfStock when the product
// has no stock or the cart already holds all of it.
//
// Known inconsistency carried over from the original storefront: adding
// does NOT decrement stock. Only UpdateQuantity and checkout move stock,
// so a line created here holds no reservation until its quantity is
// changed.
func (s *CartService) AddToCart(productID int) (*models.CartLine, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product.Stock <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrOutOfStock, product.Name)
	}

	lines, err := s.cartRepo.Get()
	if err != nil {
		return nil, err
	}

	idx := -1
	qty := 0
	for i := range lines {
		if lines[i].ProductID == productID {
			idx = i
			qty = lines[i].Quantity
			break
		}
	}
	if qty+1 > product.Stock {
		return nil, fmt.Errorf("%w: maximum available stock of %s already in cart", ErrOutOfStock, product.Name)
	}

	if idx >= 0 {
		lines[idx].Quantity++
	} else {
		lines = append(lines, models.CartLine{
			ProductID:   product.ID,
			Name:        product.Name,
			Price:       product.Price,
			Description: product.Description,
			Image:       product.Image,
			Quantity:    1,
		})
		idx = len(lines) - 1
	}
	if err := s.cartRepo.Save(lines); err != nil {
		return nil, err
	}
	line := lines[idx]
	return &line, nil
}

// UpdateQuantity sets the quantity of the cart line at index. The stock
// delta is reserved against (or released back to) the product: increasing
// by diff takes diff from stock, decreasing returns it. Fails with
// ErrInsufficientStock when the increase exceeds the remaining stock.
func (s *CartService) UpdateQuantity(index, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}

	lines, err := s.cartRepo.Get()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(lines) {
		return fmt.Errorf("cart line %d: %w", index, repositories.ErrNotFound)
	}

	products, err := s.productRepo.GetAll()
	if err != nil {
		return err
	}
	pi := findProduct(products, lines[index].ProductID)
	if pi < 0 {
		return fmt.Errorf("product with ID %d: %w", lines[index].ProductID, repositories.ErrNotFound)
	}

	diff := quantity - lines[index].Quantity
	if diff > products[pi].Stock {
		return fmt.Errorf("%w: only %d of %s available", ErrInsufficientStock, products[pi].Stock, products[pi].Name)
	}
	lines[index].Quantity = quantity
	products[pi].Stock -= diff

	if err := s.cartRepo.Save(lines); err != nil {
		return err
	}
	return s.productRepo.ReplaceAll(products)
}

// RemoveItem deletes the cart line at index, returning its full quantity
// to the product's stock. A product deleted from the catalog in the
// meantime simply has nothing to restore to.
func (s *CartService) RemoveItem(index int) error {
	lines, err := s.cartRepo.Get()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(lines) {
		return fmt.Errorf("cart line %d: %w", index, repositories.ErrNotFound)
	}

	products, err := s.productRepo.GetAll()
	if err != nil {
		return err
	}
	if pi := findProduct(products, lines[index].ProductID); pi >= 0 {
		products[pi].Stock += lines[index].Quantity
	}

	lines = append(lines[:index], lines[index+1:]...)
	if err := s.cartRepo.Save(lines); err != nil {
		return err
	}
	return s.productRepo.ReplaceAll(products)
}

// Clear empties the cart, returning every line's quantity to its
// product's stock.
func (s *CartService) Clear() error {
	lines, err := s.cartRepo.Get()
	if err != nil {
		return err
	}
	products, err := s.productRepo.GetAll()
	if err != nil {
		return err
	}
	for _, line := range lines {
		if pi := findProduct(products, line.ProductID); pi >= 0 {
			products[pi].Stock += line.Quantity
		}
	}
	if err := s.cartRepo.Clear(); err != nil {
		return err
	}
	return s.productRepo.ReplaceAll(products)
}

// CartTotal sums price times quantity over the lines, rounded to cents.
func CartTotal(lines []models.CartLine) float64 {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(decimal.NewFromFloat(line.Price).Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total.Round(2).InexactFloat64()
}

func findProduct(products []models.Product, id int) int {
	for i := range products {
		if products[i].ID == id {
			return i
		}
	}
	return -1
}
