package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pawfinder/pawfinder-api/config"
	"github.com/pawfinder/pawfinder-api/models"
)

// ToggleFavorite handles POST /api/v1/dogs/:id/favorite - adds or removes
// a favorite (buyers only, never on your own dog)
func ToggleFavorite(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if user.IsSeller() {
		errorResponse(c, http.StatusForbidden, "FORBIDDEN", "Sellers cannot favorite dogs. Only buyers can add favorites.")
		return
	}

	dogID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid dog ID")
		return
	}

	db := config.GetDB()
	var dog models.Dog
	if err := db.First(&dog, dogID).Error; err != nil {
		errorResponse(c, http.StatusNotFound, "DOG_NOT_FOUND", "Dog not found")
		return
	}

	if dog.SellerID == user.ID {
		errorResponse(c, http.StatusForbidden, "FORBIDDEN", "You cannot favorite your own dog")
		return
	}

	var favorite models.Favorite
	err = db.Where("user_id = ? AND dog_id = ?", user.ID, dog.ID).First(&favorite).Error
	isFavorited := false
	message := "Removed from favorites"
	if err != nil {
		favorite = models.Favorite{UserID: user.ID, DogID: dog.ID}
		if err := db.Create(&favorite).Error; err != nil {
			errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to add favorite")
			return
		}
		isFavorited = true
		message = "Added to favorites"
	} else {
		if err := db.Delete(&favorite).Error; err != nil {
			errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to remove favorite")
			return
		}
	}

	var count int64
	db.Model(&models.Favorite{}).Where("dog_id = ?", dog.ID).Count(&count)

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"is_favorited":    isFavorited,
		"message":         message,
		"favorites_count": count,
	})
}

// ListFavorites handles GET /api/v1/favorites - lists the current buyer's favorites
func ListFavorites(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if user.IsSeller() {
		errorResponse(c, http.StatusForbidden, "FORBIDDEN", "Sellers cannot access favorites. Only buyers can favorite dogs.")
		return
	}

	db := config.GetDB()
	var favorites []models.Favorite
	if err := db.Preload("Dog").Preload("Dog.Seller").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&favorites).Error; err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load favorites")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    favorites,
	})
}
