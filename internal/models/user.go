package models

import "gorm.io/gorm"

// User represents an account on the platform. The username doubles as the
// tenant domain under which the user's API is addressed.
type User struct {
	ID       string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email    string `json:"email" gorm:"type:varchar(255)" validate:"required,email"`
	Password string `gorm:"type:varchar(255)" validate:"required,min=6"` // bcrypt hash, no json tag for security
	APIKey   string `json:"-" gorm:"column:api_key;uniqueIndex;type:varchar(64)"`

	// Profile attributes. All of them are independently nullable, so they are
	// pointers: a nil pointer maps to a NULL column.
	Name             *string `json:"name" gorm:"type:varchar(255)"`
	LastName         *string `json:"last_name" gorm:"type:varchar(255)"`
	Website          *string `json:"website" gorm:"type:varchar(255)"`
	Description      *string `json:"description" gorm:"type:text"`
	Location         *string `json:"location" gorm:"type:varchar(255)"`
	TwitterUsername  *string `json:"twitter_username" gorm:"type:varchar(255)"`
	DisqusShortname  *string `json:"disqus_shortname" gorm:"type:varchar(255)"`
	AvailableForHire *bool   `json:"available_for_hire"`

	gorm.Model `json:"-"` // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Presentation returns the public JSON representation of the user, i.e. the
// fields that may cross the wire. The password hash and API key never appear.
func (u *User) Presentation() map[string]interface{} {
	return map[string]interface{}{
		"id":                 u.ID,
		"username":           u.Username,
		"email":              u.Email,
		"name":               u.Name,
		"last_name":          u.LastName,
		"website":            u.Website,
		"description":        u.Description,
		"location":           u.Location,
		"twitter_username":   u.TwitterUsername,
		"disqus_shortname":   u.DisqusShortname,
		"available_for_hire": u.AvailableForHire,
	}
}
