package models

import (
	"time"

	"gorm.io/gorm"
)

// Dog listing statuses
const (
	DogStatusAvailable = "available"
	DogStatusPending   = "pending"
	DogStatusSold      = "sold"
)

// Dog genders
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Dog represents a dog listed for sale
type Dog struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	Name        string   `gorm:"not null" json:"name"`
	Breed       string   `gorm:"not null;index" json:"breed"`
	AgeMonths   int      `gorm:"not null" json:"age_months"` // age in months
	Gender      string   `gorm:"not null" json:"gender"`     // "male" or "female"
	Price       float64  `gorm:"not null;index" json:"price"`
	Description string   `gorm:"type:text" json:"description"`
	Location    string   `gorm:"not null;index" json:"location"`
	Weight      *float64 `json:"weight,omitempty"` // weight in kg
	Color       *string  `json:"color,omitempty"`

	IsVaccinated bool `gorm:"default:false" json:"is_vaccinated"`
	IsNeutered   bool `gorm:"default:false" json:"is_neutered"`

	// Up to four listing photos stored as S3 keys
	ImageKey  *string `json:"image_key,omitempty"`
	ImageKey2 *string `json:"image_key2,omitempty"`
	ImageKey3 *string `json:"image_key3,omitempty"`
	ImageKey4 *string `json:"image_key4,omitempty"`
	ImageURL  *string `gorm:"-" json:"image_url,omitempty"` // computed field, presigned URL for main image

	Status   string `gorm:"not null;default:'available';index" json:"status"` // available, pending, sold
	SellerID uint   `gorm:"not null;index" json:"seller_id"`
	Seller   User   `gorm:"foreignKey:SellerID" json:"seller"`

	ViewsCount uint `gorm:"default:0" json:"views_count"`
	IsFeatured bool `gorm:"default:false" json:"is_featured"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Dog model
func (Dog) TableName() string {
	return "dogs"
}

// Favorite represents a buyer's saved dog
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorites_user_dog" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	DogID     uint      `gorm:"not null;uniqueIndex:idx_favorites_user_dog" json:"dog_id"`
	Dog       Dog       `gorm:"foreignKey:DogID" json:"dog"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the Favorite model
func (Favorite) TableName() string {
	return "favorites"
}
