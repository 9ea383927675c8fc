package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pawfinder/pawfinder-api/config"
	"github.com/pawfinder/pawfinder-api/models"
	"github.com/pawfinder/pawfinder-api/services"
)

// CreateSavedSearchRequest represents the request body for storing a search
type CreateSavedSearchRequest struct {
	Name   string                `json:"name"`
	Params services.SearchParams `json:"params" binding:"required"`
}

// CreateSavedSearch handles POST /api/v1/saved-searches - stores a filter
// set to be evaluated against every new listing (buyers only)
func CreateSavedSearch(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if user.IsSeller() {
		errorResponse(c, http.StatusForbidden, "FORBIDDEN", "Only buyers can save searches")
		return
	}

	var req CreateSavedSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	encoded, err := json.Marshal(req.Params)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid search parameters")
		return
	}

	search := models.SavedSearch{
		UserID: user.ID,
		Name:   req.Name,
		Params: string(encoded),
	}

	db := config.GetDB()
	if err := db.Create(&search).Error; err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save search")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    search,
	})
}

// ListSavedSearches handles GET /api/v1/saved-searches - lists the current user's searches
func ListSavedSearches(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var searches []models.SavedSearch
	if err := db.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&searches).Error; err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load saved searches")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    searches,
	})
}

// DeleteSavedSearch handles DELETE /api/v1/saved-searches/:id - removes one
// of the current user's saved searches
func DeleteSavedSearch(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var search models.SavedSearch
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).
		First(&search).Error; err != nil {
		errorResponse(c, http.StatusNotFound, "SEARCH_NOT_FOUND", "Saved search not found")
		return
	}

	if err := db.Delete(&search).Error; err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete saved search")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Saved search deleted",
	})
}
