package repositories

import "atlas/internal/models"

// NotificationRepository defines the interface for notification data access.
type NotificationRepository interface {
	Create(notification *models.Notification) error
	// ListByCategory returns the notifications of a user for one category,
	// ordered by ReceivedAt ascending.
	ListByCategory(userID, category string) ([]models.Notification, error)
}
