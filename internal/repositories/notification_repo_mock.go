package repositories

import (
	"sort"
	"sync"

	"atlas/internal/models"

	"github.com/google/uuid"
)

// MockNotificationRepository is an in-memory implementation of NotificationRepository.
type MockNotificationRepository struct {
	notifications []models.Notification
	mu            sync.RWMutex
}

// NewMockNotificationRepository creates a new instance of MockNotificationRepository.
func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{}
}

// Create adds a new notification.
func (r *MockNotificationRepository) Create(notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	r.notifications = append(r.notifications, *notification)
	return nil
}

// ListByCategory returns the notifications of a user for one category,
// oldest first.
func (r *MockNotificationRepository) ListByCategory(userID, category string) ([]models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Notification, 0)
	for _, n := range r.notifications {
		if n.UserID == userID && n.Category == category {
			result = append(result, n)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ReceivedAt.Before(result[j].ReceivedAt)
	})
	return result, nil
}
