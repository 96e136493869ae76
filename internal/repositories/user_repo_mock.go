package repositories

import (
	"fmt"
	"sync"

	"atlas/internal/models"

	"github.com/google/uuid"
)

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	users map[string]models.User
	mu    sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]models.User),
	}
}

// Create adds a new user.
func (r *MockUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.APIKey == "" {
		user.APIKey = uuid.New().String()
	}
	r.users[user.ID] = *user
	return nil
}

// GetByID returns a user by their ID.
func (r *MockUserRepository) GetByID(id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user with ID %s not found", id)
	}
	return &user, nil
}

// GetByUsername returns a user by their username.
func (r *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user with username %s not found", username)
}

// UpdateFields applies the column map to the stored user, mirroring the
// semantics of the GORM implementation: nil clears the field, the whole map
// is applied or nothing is.
func (r *MockUserRepository) UpdateFields(id string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user with ID %s not found", id)
	}

	for column, value := range fields {
		switch column {
		case "email":
			user.Email = value.(string)
		case "password":
			user.Password = value.(string)
		case "name":
			user.Name = toStringPtr(value)
		case "last_name":
			user.LastName = toStringPtr(value)
		case "website":
			user.Website = toStringPtr(value)
		case "description":
			user.Description = toStringPtr(value)
		case "location":
			user.Location = toStringPtr(value)
		case "twitter_username":
			user.TwitterUsername = toStringPtr(value)
		case "disqus_shortname":
			user.DisqusShortname = toStringPtr(value)
		case "available_for_hire":
			user.AvailableForHire = toBoolPtr(value)
		default:
			return fmt.Errorf("unknown user column %q", column)
		}
	}

	r.users[id] = user
	return nil
}

func toStringPtr(value interface{}) *string {
	if value == nil {
		return nil
	}
	s := value.(string)
	return &s
}

func toBoolPtr(value interface{}) *bool {
	if value == nil {
		return nil
	}
	b := value.(bool)
	return &b
}
