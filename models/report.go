package models

import (
	"time"
)

// Report statuses
const (
	ReportStatusOpen      = "open"
	ReportStatusResolved  = "resolved"
	ReportStatusDismissed = "dismissed"
)

// Report is a moderation report filed against a dog listing
type Report struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	ReporterID   uint       `gorm:"not null;index" json:"reporter_id"`
	Reporter     User       `gorm:"foreignKey:ReporterID" json:"reporter"`
	DogID        uint       `gorm:"not null;index" json:"dog_id"`
	Dog          Dog        `gorm:"foreignKey:DogID" json:"dog"`
	Reason       string     `gorm:"not null" json:"reason"`
	Details      string     `gorm:"type:text" json:"details"`
	Status       string     `gorm:"not null;default:'open';index" json:"status"` // open, resolved, dismissed
	ResolvedByID *uint      `json:"resolved_by_id,omitempty"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the Report model
func (Report) TableName() string {
	return "reports"
}
