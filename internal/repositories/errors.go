package repositories

import "errors"

// ErrNotFound marks a lookup miss (product, user, invoice, cart line).
// Callers match it with errors.Is.
var ErrNotFound = errors.New("not found")
