package models

import (
	"time"
)

// Order statuses. Cancelled and completed are terminal.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusCancelled = "cancelled"
	OrderStatusCompleted = "completed"
)

// Shipment sub-statuses. Independent of the order status and only
// meaningful once the order is confirmed.
const (
	ShipmentStatusNone       = "none"
	ShipmentStatusProcessing = "processing"
	ShipmentStatusShipped    = "shipped"
	ShipmentStatusInTransit  = "in_transit"
	ShipmentStatusDelivered  = "delivered"
)

// Order represents a dog purchase order. Orders are never deleted.
type Order struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	BuyerID uint   `gorm:"not null;index" json:"buyer_id"`
	Buyer   User   `gorm:"foreignKey:BuyerID" json:"buyer"`
	DogID   uint   `gorm:"not null;index" json:"dog_id"`
	Dog     Dog    `gorm:"foreignKey:DogID" json:"dog"`
	Status  string `gorm:"not null;default:'pending';index" json:"status"` // pending, confirmed, cancelled, completed

	// Contact information captured at order time
	BuyerName  string `gorm:"not null" json:"buyer_name"`
	BuyerEmail string `gorm:"not null" json:"buyer_email"`
	BuyerPhone string `gorm:"not null" json:"buyer_phone"`
	Message    *string `gorm:"type:text" json:"message,omitempty"` // message to seller

	// Shipment tracking fields
	ShipmentStatus    string     `gorm:"not null;default:'none'" json:"shipment_status"` // none, processing, shipped, in_transit, delivered
	Carrier           *string    `json:"carrier,omitempty"`
	TrackingNumber    *string    `json:"tracking_number,omitempty"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
	ShippedAt         *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt       *time.Time `json:"delivered_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// IsTerminal reports whether the order has reached a final status
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusCancelled || o.Status == OrderStatusCompleted
}

// IsActive reports whether the order still holds the dog (pending or confirmed)
func (o *Order) IsActive() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusConfirmed
}
