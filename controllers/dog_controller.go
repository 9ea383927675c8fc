package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pawfinder/pawfinder-api/config"
	"github.com/pawfinder/pawfinder-api/models"
	"github.com/pawfinder/pawfinder-api/services"
	"gorm.io/gorm"
)

// CreateDogRequest represents the request body for listing a dog
type CreateDogRequest struct {
	Name         string   `json:"name" binding:"required"`
	Breed        string   `json:"breed" binding:"required"`
	AgeMonths    int      `json:"age_months" binding:"required,gt=0"`
	Gender       string   `json:"gender" binding:"required,oneof=male female"`
	Price        float64  `json:"price" binding:"required,gt=0"`
	Description  string   `json:"description"`
	Location     string   `json:"location" binding:"required"`
	Weight       *float64 `json:"weight"`
	Color        *string  `json:"color"`
	IsVaccinated bool     `json:"is_vaccinated"`
	IsNeutered   bool     `json:"is_neutered"`
}

// UpdateDogRequest represents the request body for editing a listing.
// All fields are optional; zero values are ignored.
type UpdateDogRequest struct {
	Name         *string  `json:"name"`
	Breed        *string  `json:"breed"`
	AgeMonths    *int     `json:"age_months"`
	Gender       *string  `json:"gender"`
	Price        *float64 `json:"price"`
	Description  *string  `json:"description"`
	Location     *string  `json:"location"`
	Weight       *float64 `json:"weight"`
	Color        *string  `json:"color"`
	IsVaccinated *bool    `json:"is_vaccinated"`
	IsNeutered   *bool    `json:"is_neutered"`
}

// validSorts are the accepted values for the sort query parameter
var validSorts = map[string]string{
	"newest":     "created_at DESC",
	"oldest":     "created_at ASC",
	"price_asc":  "price ASC",
	"price_desc": "price DESC",
	"name":       "name ASC",
}

// applyDogFilters narrows a dog query using the browse/search parameters,
// the same sparse filter set a saved search stores.
func applyDogFilters(query *gorm.DB, c *gin.Context) *gorm.DB {
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where(
			"name LIKE ? OR breed LIKE ? OR location LIKE ? OR description LIKE ?",
			like, like, like, like,
		)
	}
	if breed := c.Query("breed"); breed != "" {
		query = query.Where("breed LIKE ?", "%"+breed+"%")
	}
	if gender := c.Query("gender"); gender != "" {
		query = query.Where("gender = ?", gender)
	}
	if location := c.Query("location"); location != "" {
		query = query.Where("location LIKE ?", "%"+location+"%")
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
	if minAge := c.Query("min_age"); minAge != "" {
		if v, err := strconv.Atoi(minAge); err == nil {
			query = query.Where("age_months >= ?", v)
		}
	}
	if maxAge := c.Query("max_age"); maxAge != "" {
		if v, err := strconv.Atoi(maxAge); err == nil {
			query = query.Where("age_months <= ?", v)
		}
	}
	if c.Query("vaccinated") != "" {
		query = query.Where("is_vaccinated = ?", true)
	}
	if c.Query("neutered") != "" {
		query = query.Where("is_neutered = ?", true)
	}
	return query
}

// ListDogs handles GET /api/v1/dogs - browses available listings with filters
func ListDogs(c *gin.Context) {
	db := config.GetDB()

	query := db.Model(&models.Dog{}).
		Preload("Seller").
		Where("status = ?", models.DogStatusAvailable)
	query = applyDogFilters(query, c)

	orderBy, ok := validSorts[c.DefaultQuery("sort", "newest")]
	if !ok {
		orderBy = validSorts["newest"]
	}

	page, perPage := paginationParams(c)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to count listings")
		return
	}

	var dogs []models.Dog
	if err := query.Order(orderBy).
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&dogs).Error; err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load listings")
		return
	}

	for i := range dogs {
		presignDogImage(&dogs[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dogs,
		"meta": gin.H{
			"page":     page,
			"per_page": perPage,
			"total":    total,
		},
	})
}

// presignDogImage fills the computed photo URL from the main image key
func presignDogImage(dog *models.Dog) {
	if dog.ImageKey == nil || *dog.ImageKey == "" {
		return
	}
	url, err := services.GetImageService().GetImageURL(*dog.ImageKey)
	if err != nil || url == "" {
		return
	}
	dog.ImageURL = &url
}

// GetDog handles GET /api/v1/dogs/:id - fetches one listing and bumps its view count
func GetDog(c *gin.Context) {
	db := config.GetDB()

	var dog models.Dog
	if err := db.Preload("Seller").First(&dog, c.Param("id")).Error; err != nil {
		errorResponse(c, http.StatusNotFound, "DOG_NOT_FOUND", "Dog not found")
		return
	}

	// Best-effort view counter; a failed bump never hides the listing
	db.Model(&dog).UpdateColumn("views_count", gorm.Expr("views_count + 1"))
	dog.ViewsCount++

	var similar []models.Dog
	db.Preload("Seller").
		Where("breed = ? AND status = ? AND id != ?", dog.Breed, models.DogStatusAvailable, dog.ID).
		Limit(4).
		Find(&similar)

	presignDogImage(&dog)
	for i := range similar {
		presignDogImage(&similar[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dog,
		"similar": similar,
	})
}

// CreateDog handles POST /api/v1/dogs - creates a listing (sellers only)
// and alerts buyers whose saved searches match the new dog.
func CreateDog(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if !user.IsSeller() {
		errorResponse(c, http.StatusForbidden, "FORBIDDEN", "Only sellers can add dogs")
		return
	}

	var req CreateDogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	dog := models.Dog{
		Name:         req.Name,
		Breed:        req.Breed,
		AgeMonths:    req.AgeMonths,
		Gender:       req.Gender,
		Price:        req.Price,
		Description:  req.Description,
		Location:     req.Location,
		Weight:       req.Weight,
		Color:        req.Color,
		IsVaccinated: req.IsVaccinated,
		IsNeutered:   req.IsNeutered,
		Status:       models.DogStatusAvailable,
		SellerID:     user.ID,
	}

	db := config.GetDB()
	if err := db.Create(&dog).Error; err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create listing")
		return
	}

	if err := db.Preload("Seller").First(&dog, dog.ID).Error; err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load listing")
		return
	}

	// Saved-search alerts are best-effort and never fail the listing
	events := services.NewSearchService(db).NotifyNewListing(&dog)
	services.GetDispatcher().Dispatch(events)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    dog,
	})
}

// UpdateDog handles PUT /api/v1/dogs/:id - edits a listing (owner only)
func UpdateDog(c *gin.Context) {
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
		errorResponse(c, http.StatusForbidden, "FORBIDDEN", "You can only edit your own listings")
		return
	}

	var req UpdateDogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Breed != nil {
		updates["breed"] = *req.Breed
	}
	if req.AgeMonths != nil {
		updates["age_months"] = *req.AgeMonths
	}
	if req.Gender != nil {
		updates["gender"] = *req.Gender
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Weight != nil {
		updates["weight"] = *req.Weight
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if req.IsVaccinated != nil {
		updates["is_vaccinated"] = *req.IsVaccinated
	}
	if req.IsNeutered != nil {
		updates["is_neutered"] = *req.IsNeutered
	}

	if len(updates) > 0 {
		if err := db.Model(&dog).Updates(updates).Error; err != nil {
			errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update listing")
			return
		}
	}

	if err := db.Preload("Seller").First(&dog, dog.ID).Error; err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load listing")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dog,
	})
}

// DeleteDog handles DELETE /api/v1/dogs/:id - removes a listing (owner only)
func DeleteDog(c *gin.Context) {
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
		errorResponse(c, http.StatusForbidden, "FORBIDDEN", "You can only delete your own listings")
		return
	}

	if err := db.Delete(&dog).Error; err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete listing")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Listing deleted",
	})
}
