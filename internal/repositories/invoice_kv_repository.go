package repositories

import (
	"errors"
	"fmt"

	"retromart/internal/kvstore"
	"retromart/internal/models"
)

// keyInvoices is the fixed key holding the invoice log as one JSON blob.
const keyInvoices = "AllInvoices"

// KVInvoiceRepository is a key-value store implementation of
// InvoiceRepository.
type KVInvoiceRepository struct {
	store kvstore.Store
}

// NewKVInvoiceRepository creates a new instance of KVInvoiceRepository.
func NewKVInvoiceRepository(store kvstore.Store) *KVInvoiceRepository {
	return &KVInvoiceRepository{store: store}
}

// GetAll returns every invoice in the log, oldest first.
func (r *KVInvoiceRepository) GetAll() ([]models.Invoice, error) {
	var invoices []models.Invoice
	if err := r.store.Get(keyInvoices, &invoices); err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return []models.Invoice{}, nil
		}
		return nil, fmt.Errorf("failed to load invoices: %w", err)
	}
	return invoices, nil
}

// GetByNumber returns the invoice with the exact invoice number.
func (r *KVInvoiceRepository) GetByNumber(number string) (*models.Invoice, error) {
	invoices, err := r.GetAll()
	if err != nil {
		return nil, err
	}
	for i := range invoices {
		if invoices[i].Number == number {
			return &invoices[i], nil
		}
	}
	return nil, fmt.Errorf("invoice %s: %w", number, ErrNotFound)
}

// Append adds an invoice to the end of the log.
func (r *KVInvoiceRepository) Append(invoice *models.Invoice) error {
	invoices, err := r.GetAll()
	if err != nil {
		return err
	}
	invoices = append(invoices, *invoice)
	if err := r.store.Set(keyInvoices, invoices); err != nil {
		return fmt.Errorf("failed to save invoices: %w", err)
	}
	return nil
}
