package models

import "time"

// User represents a registered shopper.
//
// Passwords are stored and compared as plaintext. That mirrors the demo
// this service is modeled on and is an explicit security non-goal; do not
// reuse this model anywhere real credentials are involved.
type User struct {
	TRN          string    `json:"trn" validate:"required,trn"`
	FirstName    string    `json:"first_name" validate:"required,max=100"`
	LastName     string    `json:"last_name" validate:"required,max=100"`
	DOB          string    `json:"dob" validate:"required,datetime=2006-01-02"`
	Gender       string    `json:"gender" validate:"required,oneof=Male Female Other"`
	Phone        string    `json:"phone" validate:"omitempty,max=20"`
	Email        string    `json:"email" validate:"required,email"`
	// The password needs a json tag because the registration record is
	// persisted as JSON. Handlers blank it before writing responses.
	Password     string    `json:"password" validate:"required,min=8"`
	RegisteredAt time.Time `json:"registered_at"`
	IsAdmin      bool      `json:"is_admin"`
}
