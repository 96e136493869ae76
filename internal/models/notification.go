package models

import "time"

// Notification is a message shown to a user in one of the platform surfaces
// (dashboard, builder, ...). The category selects the surface.
type Notification struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string     `json:"user_id" gorm:"index;type:varchar(36)"`
	Category   string     `json:"category" gorm:"index;type:varchar(50)"`
	Body       string     `json:"body" gorm:"type:text"`
	ReceivedAt time.Time  `json:"received_at"`
	ReadAt     *time.Time `json:"read_at"`
}
