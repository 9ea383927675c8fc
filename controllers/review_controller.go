package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pawfinder/pawfinder-api/config"
	"github.com/pawfinder/pawfinder-api/models"
)

// CreateReviewRequest represents the request body for reviewing a seller
type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,gte=1,lte=5"`
	Comment string `json:"comment"`
}

// CreateSellerReview handles POST /api/v1/sellers/:id/reviews - a buyer
// with a completed order reviews the seller, at most once
func CreateSellerReview(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if user.IsSeller() {
		errorResponse(c, http.StatusForbidden, "FORBIDDEN", "Only buyers can review sellers")
		return
	}

	sellerID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid seller ID")
		return
	}

	db := config.GetDB()
	var seller models.User
	if err := db.Where("id = ? AND role = ?", sellerID, models.RoleSeller).
		First(&seller).Error; err != nil {
		errorResponse(c, http.StatusNotFound, "SELLER_NOT_FOUND", "Seller not found")
		return
	}

	// Reviews require a completed purchase from this seller
	var completed int64
	db.Model(&models.Order{}).
		Joins("JOIN dogs ON dogs.id = orders.dog_id").
		Where("orders.buyer_id = ? AND dogs.seller_id = ? AND orders.status = ?",
			user.ID, seller.ID, models.OrderStatusCompleted).
		Count(&completed)
	if completed == 0 {
		errorResponse(c, http.StatusForbidden, "NO_COMPLETED_ORDER", "You can only review sellers you have completed a purchase with")
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	review := models.SellerReview{
		SellerID:   seller.ID,
		ReviewerID: user.ID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := db.Create(&review).Error; err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			errorResponse(c, http.StatusConflict, "REVIEW_EXISTS", "You have already reviewed this seller")
			return
		}
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create review")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    review,
	})
}

// ListSellerReviews handles GET /api/v1/sellers/:id/reviews - lists a
// seller's reviews with their average rating
func ListSellerReviews(c *gin.Context) {
	db := config.GetDB()

	sellerID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid seller ID")
		return
	}

	var reviews []models.SellerReview
	if err := db.Preload("Reviewer").
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load reviews")
		return
	}

	var avg float64
	db.Model(&models.SellerReview{}).
		Where("seller_id = ?", sellerID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg)

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"data":           reviews,
		"average_rating": avg,
	})
}
