package repositories

import "retromart/internal/models"

// UserRepository defines the interface for registration data access.
type UserRepository interface {
	GetAll() ([]models.User, error)
	GetByTRN(trn string) (*models.User, error)
	Create(user *models.User) error
}
