package repositories

import "retromart/internal/models"

// SessionRepository defines the interface for the single stored login
// session. Get returns (nil, nil) when no session is stored.
type SessionRepository interface {
	Get() (*models.Session, error)
	Set(session *models.Session) error
	Clear() error
}
