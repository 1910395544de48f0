package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"retromart/internal/models"
	"retromart/internal/repositories"

	"github.com/shopspring/decimal"
)

// Pricing rules applied at checkout.
var (
	taxRate           = decimal.NewFromFloat(0.07)
	discountRate      = decimal.NewFromFloat(0.05)
	discountThreshold = decimal.NewFromInt(200)
)

// InvoiceEventPublisher publishes a notification for each completed
// checkout. A nil publisher disables publication; failures never fail the
// checkout itself.
type InvoiceEventPublisher interface {
	PublishInvoiceCreated(event map[string]interface{}) error
}

// CheckoutService turns the cart into an immutable invoice: it computes
// tax, discount and total, finalizes the stock deduction, appends the
// invoice to the log, and clears the cart.
type CheckoutService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
	invoiceRepo repositories.InvoiceRepository
	events      InvoiceEventPublisher

	mu         sync.Mutex
	lastNumber int64
}

// NewCheckoutService creates a new CheckoutService. events may be nil.
func NewCheckoutService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository, invoiceRepo repositories.InvoiceRepository, events InvoiceEventPublisher) *CheckoutService {
	return &CheckoutService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		invoiceRepo: invoiceRepo,
		events:      events,
	}
}

// Checkout converts the current cart into an invoice.
//
// subtotal = Σ price·qty, tax = 7% of subtotal, discount = 5% of subtotal
// when subtotal ≥ 200, total = subtotal + tax − discount. All monetary
// values are rounded to two decimal places. Purchased quantities are
// deducted from stock with a floor of zero, which absorbs drift from the
// cart's partial reservations. There is no partial checkout: an empty
// cart fails with ErrEmptyCart and nothing else touches the store.
func (s *CheckoutService) Checkout(shipping models.ShippingInfo) (*models.Invoice, error) {
	lines, err := s.cartRepo.Get()
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(decimal.NewFromFloat(line.Price).Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	tax := subtotal.Mul(taxRate)
	discount := decimal.Zero
	if subtotal.GreaterThanOrEqual(discountThreshold) {
		discount = subtotal.Mul(discountRate)
	}
	total := subtotal.Add(tax).Sub(discount)

	// Final stock deduction, clamped at zero.
	products, err := s.productRepo.GetAll()
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		if pi := findProduct(products, line.ProductID); pi >= 0 {
			products[pi].Stock -= line.Quantity
			if products[pi].Stock < 0 {
				products[pi].Stock = 0
			}
		}
	}
	if err := s.productRepo.ReplaceAll(products); err != nil {
		return nil, err
	}

	invoice := &models.Invoice{
		Number:   s.nextInvoiceNumber(),
		Date:     time.Now(),
		Items:    append([]models.CartLine(nil), lines...),
		Subtotal: subtotal.Round(2).InexactFloat64(),
		Tax:      tax.Round(2).InexactFloat64(),
		Discount: discount.Round(2).InexactFloat64(),
		Total:    total.Round(2).InexactFloat64(),
		Shipping: shipping,
	}
	if err := s.invoiceRepo.Append(invoice); err != nil {
		return nil, fmt.Errorf("failed to record invoice: %w", err)
	}
	if err := s.cartRepo.Clear(); err != nil {
		return nil, err
	}

	if s.events != nil {
		event := map[string]interface{}{
			"invoice_number": invoice.Number,
			"date":           invoice.Date,
			"total":          invoice.Total,
			"item_count":     len(invoice.Items),
		}
		if err := s.events.PublishInvoiceCreated(event); err != nil {
			log.Printf("Warning: failed to publish invoice created event for %s: %v", invoice.Number, err)
		}
	}

	return invoice, nil
}

// nextInvoiceNumber derives a number from the current timestamp in
// milliseconds, bumped past the previous one so numbers stay strictly
// monotonic even when two checkouts land in the same millisecond.
func (s *CheckoutService) nextInvoiceNumber() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := time.Now().UnixMilli()
	if n <= s.lastNumber {
		n = s.lastNumber + 1
	}
	s.lastNumber = n
	return fmt.Sprintf("INV-%d", n)
}
