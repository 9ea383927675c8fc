package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pawfinder/pawfinder-api/config"
	"github.com/pawfinder/pawfinder-api/middleware"
	"github.com/pawfinder/pawfinder-api/models"
)

// errorResponse writes the standard error envelope
func errorResponse(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// currentUser resolves the authenticated user's profile from the JWT
// subject. It writes the error response and returns false when the
// token is missing or no profile exists yet.
func currentUser(c *gin.Context) (*models.User, bool) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		errorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return nil, false
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("auth0_id = ?", auth0ID).First(&user).Error; err != nil {
		errorResponse(c, http.StatusNotFound, "USER_NOT_FOUND", "User profile not found. Please create a profile first.")
		return nil, false
	}

	return &user, true
}

// paginationParams reads page/per_page query parameters with sane bounds
func paginationParams(c *gin.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "12"))
	if perPage < 1 || perPage > 100 {
		perPage = 12
	}
	return page, perPage
}
