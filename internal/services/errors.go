package services

import "errors"

// Error kinds surfaced to the end user. Handlers map them to HTTP status
// codes with errors.Is; none are retried.
var (
	// ErrInvalidCredentials means the TRN/password pair matched neither
	// the admin credentials nor any registered user.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountLocked means three consecutive login failures occurred in
	// this process's lifetime. The counter is not persisted.
	ErrAccountLocked = errors.New("account locked due to multiple failed attempts")
	// ErrDuplicateTRN means the TRN is already registered.
	ErrDuplicateTRN = errors.New("TRN already registered")
	// ErrOutOfStock means the product has no stock left, or the cart
	// already holds everything the product has.
	ErrOutOfStock = errors.New("out of stock")
	// ErrInsufficientStock means a quantity increase asked for more than
	// the product's remaining stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrEmptyCart means checkout was attempted with zero cart lines.
	ErrEmptyCart = errors.New("cart is empty")
)
