package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// User represents a marketplace user (buyer, seller, or admin)
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Auth0ID   string         `gorm:"uniqueIndex;not null" json:"auth0_id"` // Auth0 user ID (from 'sub' claim)
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Phone     string         `json:"phone"`
	Role      string         `gorm:"not null;default:'buyer'" json:"role"` // "buyer", "seller" or "admin"
	Location  string         `json:"location"`
	Bio       string         `gorm:"size:500" json:"bio"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsSeller reports whether the user is a seller
func (u *User) IsSeller() bool {
	return u.Role == RoleSeller
}

// IsBuyer reports whether the user is a buyer
func (u *User) IsBuyer() bool {
	return u.Role == RoleBuyer
}

// IsAdmin reports whether the user is an admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
