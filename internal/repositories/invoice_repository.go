package repositories

import "retromart/internal/models"

// InvoiceRepository defines the interface for the append-only invoice log.
// Invoices are never mutated or deleted once appended.
type InvoiceRepository interface {
	GetAll() ([]models.Invoice, error)
	GetByNumber(number string) (*models.Invoice, error)
	Append(invoice *models.Invoice) error
}
