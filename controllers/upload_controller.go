package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pawfinder/pawfinder-api/config"
	"github.com/pawfinder/pawfinder-api/models"
	"github.com/pawfinder/pawfinder-api/services"
	"github.com/pawfinder/pawfinder-api/utils"
)

// slotColumns maps the photo slot form value to the dog column it fills.
// Slot defaults to the main image when omitted.
var slotColumns = map[string]string{
	"":  "image_key",
	"1": "image_key",
	"2": "image_key2",
	"3": "image_key3",
	"4": "image_key4",
}

// UploadDogImage handles POST /api/v1/dogs/:id/images - uploads a listing
// photo into one of the four slots, replacing any existing photo there
func UploadDogImage(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var dog models.Dog
	if err := db.First(&dog, c.Param("id")).Error; err != nil {
		errorResponse(c, http.StatusNotFound, "DOG_NOT_FOUND", "Dog not found")
		return
	}
	if dog.SellerID != user.ID {
		errorResponse(c, http.StatusForbidden, "FORBIDDEN", "You can only upload photos for your own listings")
		return
	}

	column, ok := slotColumns[c.PostForm("slot")]
	if !ok {
		errorResponse(c, http.StatusBadRequest, "INVALID_SLOT", "Photo slot must be between 1 and 4")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "FILE_REQUIRED", "An image file is required")
		return
	}

	imageKey, err := services.GetImageService().UploadImage(fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			errorResponse(c, http.StatusBadRequest, uploadErr.Code, uploadErr.Message)
			return
		}
		errorResponse(c, http.StatusInternalServerError, "UPLOAD_FAILED", "Failed to upload image")
		return
	}

	// Replace the previous photo in this slot, if any.
	previous := map[string]*string{
		"image_key":  dog.ImageKey,
		"image_key2": dog.ImageKey2,
		"image_key3": dog.ImageKey3,
		"image_key4": dog.ImageKey4,
	}[column]

	if err := db.Model(&dog).Update(column, imageKey).Error; err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save image reference")
		return
	}

	log.Printf("DEBUG upload: column=%q newKey=%q previous=%v", column, imageKey, previous)
	if previous != nil && *previous != "" {
		log.Printf("DEBUG upload: deleting previous=%q", *previous)
		if err := services.GetImageService().DeleteImage(*previous); err != nil {
			// Orphaned objects are cleaned up out of band.
			log.Printf("failed to delete replaced image %s: %v", *previous, err)
		}
	}

	url, err := services.GetImageService().GetImageURL(imageKey)
	if err != nil {
		url = ""
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"image_key": imageKey,
			"image_url": url,
		},
	})
}

// DeleteDogImage handles DELETE /api/v1/dogs/:id/images/:slot - removes a
// listing photo from the given slot
func DeleteDogImage(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var dog models.Dog
	if err := db.First(&dog, c.Param("id")).Error; err != nil {
		errorResponse(c, http.StatusNotFound, "DOG_NOT_FOUND", "Dog not found")
		return
	}
	if dog.SellerID != user.ID {
		errorResponse(c, http.StatusForbidden, "FORBIDDEN", "You can only manage photos for your own listings")
		return
	}

	column, ok := slotColumns[c.Param("slot")]
	if !ok {
		errorResponse(c, http.StatusBadRequest, "INVALID_SLOT", "Photo slot must be between 1 and 4")
		return
	}

	key := map[string]*string{
		"image_key":  dog.ImageKey,
		"image_key2": dog.ImageKey2,
		"image_key3": dog.ImageKey3,
		"image_key4": dog.ImageKey4,
	}[column]
	if key == nil || *key == "" {
		errorResponse(c, http.StatusNotFound, "IMAGE_NOT_FOUND", "No photo in this slot")
		return
	}

	if err := db.Model(&dog).Update(column, nil).Error; err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to remove image reference")
		return
	}

	if err := services.GetImageService().DeleteImage(*key); err != nil {
		log.Printf("failed to delete image %s: %v", *key, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Photo removed",
	})
}
