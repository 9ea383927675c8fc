package models

import (
	"time"
)

// CartItem is one entry in a cart. Carts are identified by an opaque
// token (X-Cart-Token header) so anonymous visitors can build a cart
// before signing in; once signed in the token is associated with the
// user. An item references either a dog or an accessory, never both.
type CartItem struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	CartToken string `gorm:"not null;index;uniqueIndex:idx_cart_dog;uniqueIndex:idx_cart_accessory" json:"-"`
	UserID    *uint  `gorm:"index" json:"user_id,omitempty"`

	DogID       *uint      `gorm:"uniqueIndex:idx_cart_dog" json:"dog_id,omitempty"`
	Dog         *Dog       `gorm:"foreignKey:DogID" json:"dog,omitempty"`
	AccessoryID *uint      `gorm:"uniqueIndex:idx_cart_accessory" json:"accessory_id,omitempty"`
	Accessory   *Accessory `gorm:"foreignKey:AccessoryID" json:"accessory,omitempty"`

	Quantity  uint      `gorm:"not null;default:1" json:"quantity"` // always 1 for dogs
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the CartItem model
func (CartItem) TableName() string {
	return "cart_items"
}
