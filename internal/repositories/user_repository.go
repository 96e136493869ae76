package repositories

import "atlas/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	// UpdateFields applies a column -> value map to the user row in a single
	// statement. A nil value clears the column to NULL, which is why this
	// takes a map instead of a struct.
	UpdateFields(id string, fields map[string]interface{}) error
}
