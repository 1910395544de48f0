package models

// CartLine is a single (product, quantity) entry in the cart. Product
// fields are snapshotted at add time so invoices stay stable even when the
// catalog entry is later edited or deleted.
type CartLine struct {
	ProductID   int     `json:"product_id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Quantity    int     `json:"quantity"`
}
