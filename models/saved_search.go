package models

import (
	"time"
)

// SavedSearch is a buyer-owned stored filter set. New listings are
// evaluated against every saved search and matches trigger an email
// alert to the owner. Saved searches are read-only after creation
// except for deletion.
type SavedSearch struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	Name      string    `json:"name"`
	Params    string    `gorm:"type:text;not null" json:"params"` // JSON-encoded filter parameters
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the SavedSearch model
func (SavedSearch) TableName() string {
	return "saved_searches"
}
