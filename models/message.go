package models

import (
	"time"
)

// Conversation groups messages between a buyer and a seller, optionally
// about a specific dog listing.
type Conversation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DogID     *uint     `gorm:"index" json:"dog_id,omitempty"`
	Dog       *Dog      `gorm:"foreignKey:DogID" json:"dog,omitempty"`
	BuyerID   uint      `gorm:"not null;index" json:"buyer_id"`
	Buyer     User      `gorm:"foreignKey:BuyerID" json:"buyer"`
	SellerID  uint      `gorm:"not null;index" json:"seller_id"`
	Seller    User      `gorm:"foreignKey:SellerID" json:"seller"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Conversation model
func (Conversation) TableName() string {
	return "conversations"
}

// OtherParticipantID returns the conversation partner of the given user
func (c *Conversation) OtherParticipantID(userID uint) uint {
	if c.BuyerID == userID {
		return c.SellerID
	}
	return c.BuyerID
}

// HasParticipant reports whether the user takes part in the conversation
func (c *Conversation) HasParticipant(userID uint) bool {
	return c.BuyerID == userID || c.SellerID == userID
}

// Message represents a single message between a buyer and a seller
type Message struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	ConversationID uint         `gorm:"not null;index" json:"conversation_id"`
	Conversation   Conversation `gorm:"foreignKey:ConversationID" json:"-"`
	SenderID       uint         `gorm:"not null;index" json:"sender_id"`
	Sender         User         `gorm:"foreignKey:SenderID" json:"sender"`
	ReceiverID     uint         `gorm:"not null;index" json:"receiver_id"`
	Receiver       User         `gorm:"foreignKey:ReceiverID" json:"-"`
	Subject        *string      `json:"subject,omitempty"`
	Content        string       `gorm:"type:text;not null" json:"content"`
	IsRead         bool         `gorm:"default:false" json:"is_read"`
	ReadAt         *time.Time   `json:"read_at,omitempty"`
	SentAt         time.Time    `gorm:"autoCreateTime" json:"sent_at"`
}

// TableName specifies the table name for the Message model
func (Message) TableName() string {
	return "messages"
}
