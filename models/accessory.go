package models

import (
	"time"

	"gorm.io/gorm"
)

// Accessory categories
const (
	AccessoryCategoryFood     = "food"
	AccessoryCategoryToys     = "toys"
	AccessoryCategoryHealth   = "health"
	AccessoryCategorySafety   = "safety"
	AccessoryCategoryBedding  = "bedding"
	AccessoryCategoryClothing = "clothing"
	AccessoryCategoryTravel   = "travel"
	AccessoryCategoryOther    = "other"
)

// Accessory represents a pet accessory or food product listed by a seller
type Accessory struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"not null;index" json:"price"`
	Category    string  `gorm:"not null;default:'other';index" json:"category"`
	Brand       *string `json:"brand,omitempty"`
	Size        *string `json:"size,omitempty"`
	Color       *string `json:"color,omitempty"`

	ImageKey *string `json:"image_key,omitempty"`
	ImageURL *string `gorm:"-" json:"image_url,omitempty"` // computed field

	SellerID uint `gorm:"not null;index" json:"seller_id"`
	Seller   User `gorm:"foreignKey:SellerID" json:"seller"`

	Quantity    uint `gorm:"default:1" json:"quantity"`
	IsAvailable bool `gorm:"default:true;index" json:"is_available"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Accessory model
func (Accessory) TableName() string {
	return "accessories"
}
