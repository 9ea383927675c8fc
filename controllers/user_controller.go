package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pawfinder/pawfinder-api/config"
	"github.com/pawfinder/pawfinder-api/middleware"
	"github.com/pawfinder/pawfinder-api/models"
	"github.com/pawfinder/pawfinder-api/services"
)

// UpdateUserRequest represents the request body for updating a user profile
type UpdateUserRequest struct {
	Name     string  `json:"name" binding:"omitempty"`
	Email    string  `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone"`
	Location *string `json:"location"`
	Bio      *string `json:"bio" binding:"omitempty,max=500"`
}

func isUniqueViolation(err error) bool {
	// Works with both PostgreSQL and SQLite error strings
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}

// CreateUser handles POST /api/v1/users - creates a new user from Auth0 userinfo.
// This endpoint requires authentication and fetches user data from Auth0's
// /userinfo endpoint; the marketplace role comes from the custom role claim.
func CreateUser(c *gin.Context) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		errorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user ID from token")
		return
	}

	accessToken, err := middleware.GetAccessToken(c)
	if err != nil {
		errorResponse(c, http.StatusUnauthorized, "MISSING_TOKEN", "Access token not found")
		return
	}

	cfg := config.GetConfig()
	auth0Service := services.NewAuth0Service(cfg)
	userInfo, err := auth0Service.GetUserInfo(accessToken)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "AUTH0_ERROR", "Failed to fetch user information from Auth0")
		return
	}

	if userInfo.Email == "" {
		errorResponse(c, http.StatusBadRequest, "MISSING_EMAIL", "Email not provided by Auth0")
		return
	}
	if userInfo.Name == "" {
		errorResponse(c, http.StatusBadRequest, "MISSING_NAME", "Name not provided by Auth0")
		return
	}

	// Admins are provisioned out of band; self-registration gets buyer or seller.
	role := middleware.GetRoleClaim(c)
	if role != models.RoleBuyer && role != models.RoleSeller {
		role = models.RoleBuyer
	}

	user := models.User{
		Auth0ID: auth0ID,
		Name:    userInfo.Name,
		Email:   userInfo.Email,
		Role:    role,
	}

	db := config.GetDB()
	if err := db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			errorResponse(c, http.StatusConflict, "USER_EXISTS", "A user with this Auth0 ID or email already exists")
			return
		}
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    user,
	})
}

// GetMyProfile handles GET /api/v1/users/me - gets current user's profile
func GetMyProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// UpdateMyProfile handles PUT /api/v1/users/me - updates current user's profile
func UpdateMyProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}

	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    user,
		})
		return
	}

	db := config.GetDB()
	if err := db.Model(user).Updates(updates).Error; err != nil {
		if isUniqueViolation(err) {
			errorResponse(c, http.StatusConflict, "EMAIL_EXISTS", "A user with this email already exists")
			return
		}
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update user profile")
		return
	}

	if err := db.First(user, user.ID).Error; err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch updated profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// GetSellerProfile handles GET /api/v1/sellers/:id - public seller page with
// their available listings and review summary
func GetSellerProfile(c *gin.Context) {
	db := config.GetDB()

	var seller models.User
	if err := db.First(&seller, c.Param("id")).Error; err != nil {
		errorResponse(c, http.StatusNotFound, "SELLER_NOT_FOUND", "Seller not found")
		return
	}
	if !seller.IsSeller() {
		errorResponse(c, http.StatusNotFound, "SELLER_NOT_FOUND", "Seller not found")
		return
	}

	var dogs []models.Dog
	if err := db.Where("seller_id = ? AND status = ?", seller.ID, models.DogStatusAvailable).
		Order("created_at DESC").
		Find(&dogs).Error; err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load listings")
		return
	}

	var reviews []models.SellerReview
	if err := db.Preload("Reviewer").
		Where("seller_id = ?", seller.ID).
		Order("created_at DESC").
		Limit(20).
		Find(&reviews).Error; err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load reviews")
		return
	}

	var stats struct {
		AverageRating  float64
		ReviewCount    int64
		CompletedSales int64
	}
	db.Model(&models.SellerReview{}).
		Where("seller_id = ?", seller.ID).
		Select("COALESCE(AVG(rating), 0) as average_rating, COUNT(*) as review_count").
		Scan(&stats)
	db.Model(&models.Order{}).
		Joins("JOIN dogs ON dogs.id = orders.dog_id").
		Where("dogs.seller_id = ? AND orders.status = ?", seller.ID, models.OrderStatusCompleted).
		Count(&stats.CompletedSales)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"seller":          seller,
			"dogs":            dogs,
			"reviews":         reviews,
			"average_rating":  stats.AverageRating,
			"review_count":    stats.ReviewCount,
			"completed_sales": stats.CompletedSales,
		},
	})
}

// GetDashboard handles GET /api/v1/dashboard - role-dependent activity summary
func GetDashboard(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	data := gin.H{"role": user.Role}

	var unreadMessages int64
	db.Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", user.ID, false).
		Count(&unreadMessages)
	data["unread_messages"] = unreadMessages

	if user.IsSeller() {
		var activeListings, pendingOrders, completedSales int64
		db.Model(&models.Dog{}).
			Where("seller_id = ? AND status = ?", user.ID, models.DogStatusAvailable).
			Count(&activeListings)
		db.Model(&models.Order{}).
			Joins("JOIN dogs ON dogs.id = orders.dog_id").
			Where("dogs.seller_id = ? AND orders.status = ?", user.ID, models.OrderStatusPending).
			Count(&pendingOrders)
		db.Model(&models.Order{}).
			Joins("JOIN dogs ON dogs.id = orders.dog_id").
			Where("dogs.seller_id = ? AND orders.status = ?", user.ID, models.OrderStatusCompleted).
			Count(&completedSales)

		var rating struct {
			AverageRating float64
			ReviewCount   int64
		}
		db.Model(&models.SellerReview{}).
			Where("seller_id = ?", user.ID).
			Select("COALESCE(AVG(rating), 0) as average_rating, COUNT(*) as review_count").
			Scan(&rating)

		data["active_listings"] = activeListings
		data["pending_orders"] = pendingOrders
		data["completed_sales"] = completedSales
		data["average_rating"] = rating.AverageRating
		data["review_count"] = rating.ReviewCount
	} else {
		var activeOrders, favorites, savedSearches int64
		db.Model(&models.Order{}).
			Where("buyer_id = ? AND status IN ?", user.ID, []string{models.OrderStatusPending, models.OrderStatusConfirmed}).
			Count(&activeOrders)
		db.Model(&models.Favorite{}).
			Where("user_id = ?", user.ID).
			Count(&favorites)
		db.Model(&models.SavedSearch{}).
			Where("user_id = ?", user.ID).
			Count(&savedSearches)

		data["active_orders"] = activeOrders
		data["favorites"] = favorites
		data["saved_searches"] = savedSearches
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// GetNotifications handles GET /api/v1/notifications - lightweight counters
// the client polls to badge the navigation bar
func GetNotifications(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()

	var unreadMessages int64
	db.Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", user.ID, false).
		Count(&unreadMessages)

	var actionableOrders int64
	if user.IsSeller() {
		db.Model(&models.Order{}).
			Joins("JOIN dogs ON dogs.id = orders.dog_id").
			Where("dogs.seller_id = ? AND orders.status = ?", user.ID, models.OrderStatusPending).
			Count(&actionableOrders)
	} else {
		db.Model(&models.Order{}).
			Where("buyer_id = ? AND status = ?", user.ID, models.OrderStatusConfirmed).
			Count(&actionableOrders)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"unread_messages":   unreadMessages,
			"actionable_orders": actionableOrders,
		},
	})
}
