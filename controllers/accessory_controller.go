package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pawfinder/pawfinder-api/config"
	"github.com/pawfinder/pawfinder-api/models"
	"github.com/pawfinder/pawfinder-api/services"
)

// CreateAccessoryRequest represents the request body for creating an accessory
type CreateAccessoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Category    string  `json:"category" binding:"required,oneof=food toys health safety bedding clothing travel other"`
	Brand       *string `json:"brand"`
	Size        *string `json:"size"`
	Color       *string `json:"color"`
	Quantity    *uint   `json:"quantity"`
}

// UpdateAccessoryRequest represents the request body for updating an accessory
type UpdateAccessoryRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Brand       *string  `json:"brand"`
	Size        *string  `json:"size"`
	Color       *string  `json:"color"`
	Quantity    *uint    `json:"quantity"`
	IsAvailable *bool    `json:"is_available"`
}

func presignAccessoryImage(accessory *models.Accessory) {
	if accessory.ImageKey == nil || *accessory.ImageKey == "" {
		return
	}
	url, err := services.GetS3Service().GetPresignedURL(*accessory.ImageKey)
	if err != nil {
		return
	}
	accessory.ImageURL = &url
}

// ListAccessories handles GET /api/v1/accessories - browse accessories with filters
func ListAccessories(c *gin.Context) {
	db := config.GetDB()
	query := db.Model(&models.Accessory{}).Preload("Seller").Where("is_available = ?", true)

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if brand := c.Query("brand"); brand != "" {
		query = query.Where("brand = ?", brand)
	}
	if minPrice := c.Query("min_price"); minPrice != "" {
		if v, err := strconv.ParseFloat(minPrice, 64); err == nil {
			query = query.Where("price >= ?", v)
		}
	}
	if maxPrice := c.Query("max_price"); maxPrice != "" {
		if v, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			query = query.Where("price <= ?", v)
		}
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
	}

	page, perPage := paginationParams(c)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to count accessories")
		return
	}

	var accessories []models.Accessory
	if err := query.Order("created_at DESC").Offset((page - 1) * perPage).Limit(perPage).Find(&accessories).Error; err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load accessories")
		return
	}
	for i := range accessories {
		presignAccessoryImage(&accessories[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    accessories,
		"meta": gin.H{
			"page":     page,
			"per_page": perPage,
			"total":    total,
		},
	})
}

// GetAccessory handles GET /api/v1/accessories/:id
func GetAccessory(c *gin.Context) {
	db := config.GetDB()
	var accessory models.Accessory
	if err := db.Preload("Seller").First(&accessory, c.Param("id")).Error; err != nil {
		errorResponse(c, http.StatusNotFound, "ACCESSORY_NOT_FOUND", "Accessory not found")
		return
	}
	presignAccessoryImage(&accessory)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    accessory,
	})
}

// CreateAccessory handles POST /api/v1/accessories - sellers only
func CreateAccessory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !user.IsSeller() {
		errorResponse(c, http.StatusForbidden, "FORBIDDEN", "Only sellers can list accessories")
		return
	}

	var req CreateAccessoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	accessory := models.Accessory{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Brand:       req.Brand,
		Size:        req.Size,
		Color:       req.Color,
		SellerID:    user.ID,
		Quantity:    1,
		IsAvailable: true,
	}
	if req.Quantity != nil {
		accessory.Quantity = *req.Quantity
	}

	if err := config.GetDB().Create(&accessory).Error; err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create accessory")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    accessory,
	})
}

// UpdateAccessory handles PUT /api/v1/accessories/:id - owner only
func UpdateAccessory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var accessory models.Accessory
	if err := db.First(&accessory, c.Param("id")).Error; err != nil {
		errorResponse(c, http.StatusNotFound, "ACCESSORY_NOT_FOUND", "Accessory not found")
		return
	}
	if accessory.SellerID != user.ID {
		errorResponse(c, http.StatusForbidden, "FORBIDDEN", "You can only update your own accessories")
		return
	}

	var req UpdateAccessoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Brand != nil {
		updates["brand"] = *req.Brand
	}
	if req.Size != nil {
		updates["size"] = *req.Size
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
	}
	if req.IsAvailable != nil {
		updates["is_available"] = *req.IsAvailable
	}

	if len(updates) > 0 {
		if err := db.Model(&accessory).Updates(updates).Error; err != nil {
			errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update accessory")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    accessory,
	})
}

// DeleteAccessory handles DELETE /api/v1/accessories/:id - owner only
func DeleteAccessory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var accessory models.Accessory
	if err := db.First(&accessory, c.Param("id")).Error; err != nil {
		errorResponse(c, http.StatusNotFound, "ACCESSORY_NOT_FOUND", "Accessory not found")
		return
	}
	if accessory.SellerID != user.ID {
		errorResponse(c, http.StatusForbidden, "FORBIDDEN", "You can only delete your own accessories")
		return
	}

	if err := db.Delete(&accessory).Error; err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete accessory")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Accessory deleted",
	})
}
