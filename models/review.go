package models

import (
	"time"
)

// SellerReview is a buyer's rating of a seller. A buyer may review a
// seller only after completing an order with them, and at most once.
type SellerReview struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SellerID   uint      `gorm:"not null;uniqueIndex:idx_reviews_seller_reviewer" json:"seller_id"`
	Seller     User      `gorm:"foreignKey:SellerID" json:"-"`
	ReviewerID uint      `gorm:"not null;uniqueIndex:idx_reviews_seller_reviewer" json:"reviewer_id"`
	Reviewer   User      `gorm:"foreignKey:ReviewerID" json:"reviewer"`
	Rating     int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment    string    `gorm:"type:text" json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for the SellerReview model
func (SellerReview) TableName() string {
	return "seller_reviews"
}
