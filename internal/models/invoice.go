package models

import "time"

// ShippingInfo is the delivery contact captured at checkout.
type ShippingInfo struct {
	Name    string `json:"name" validate:"required,max=100"`
	Address string `json:"address" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email"`
}

// Invoice is a completed purchase record. Invoices are immutable once
// created: they are appended to the invoice log and never mutated or
// deleted. Items carry the cart snapshot at time of purchase.
type Invoice struct {
	Number   string       `json:"invoice_number"`
	Date     time.Time    `json:"date"`
	Items    []CartLine   `json:"items"`
	Subtotal float64      `json:"subtotal"`
	Tax      float64      `json:"tax"`
	Discount float64      `json:"discount"`
	Total    float64      `json:"total"`
	Shipping ShippingInfo `json:"shipping"`
}
