package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pawfinder/pawfinder-api/config"
	"github.com/pawfinder/pawfinder-api/controllers"
	"github.com/pawfinder/pawfinder-api/middleware"
	"github.com/pawfinder/pawfinder-api/models"
	"github.com/pawfinder/pawfinder-api/services"
)

func main() {
	log.Println("Starting PawFinder API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Dog{},
		&models.Favorite{},
		&models.Order{},
		&models.SavedSearch{},
		&models.Conversation{},
		&models.Message{},
		&models.SellerReview{},
		&models.Report{},
		&models.Accessory{},
		&models.CartItem{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	s3Service, err := services.InitS3Service()
	if err != nil {
		log.Fatalf("Failed to initialize S3 service: %v", err)
	}
	services.InitImageService(s3Service)

	emailSender, err := services.InitEmailService()
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	services.InitDispatcher(db, emailSender)

	router := setupRouter(cfg)

	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter configures middleware and the full API v1 route table
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Cart-Token"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		// Public browsing
		v1.GET("/dogs", controllers.ListDogs)
		v1.GET("/dogs/:id", controllers.GetDog)
		v1.GET("/accessories", controllers.ListAccessories)
		v1.GET("/accessories/:id", controllers.GetAccessory)
		v1.GET("/sellers/:id", controllers.GetSellerProfile)
		v1.GET("/sellers/:id/reviews", controllers.ListSellerReviews)

		// Cart is identified by the X-Cart-Token header, no login needed
		v1.GET("/cart", controllers.GetCart)
		v1.POST("/cart/dogs/:id", controllers.AddDogToCart)
		v1.POST("/cart/accessories/:id", controllers.AddAccessoryToCart)
		v1.DELETE("/cart/items/:id", controllers.RemoveCartItem)

		authed := v1.Group("")
		authed.Use(middleware.EnsureValidToken(cfg))
		{
			authed.POST("/cart/claim", controllers.ClaimCart)

			authed.POST("/users", controllers.CreateUser)
			authed.GET("/users/me", controllers.GetMyProfile)
			authed.PUT("/users/me", controllers.UpdateMyProfile)
			authed.GET("/dashboard", controllers.GetDashboard)
			authed.GET("/notifications", controllers.GetNotifications)

			authed.POST("/dogs", controllers.CreateDog)
			authed.PUT("/dogs/:id", controllers.UpdateDog)
			authed.DELETE("/dogs/:id", controllers.DeleteDog)
			authed.POST("/dogs/:id/images", controllers.UploadDogImage)
			authed.DELETE("/dogs/:id/images/:slot", controllers.DeleteDogImage)
			authed.POST("/dogs/:id/favorite", controllers.ToggleFavorite)
			authed.GET("/favorites", controllers.ListFavorites)

			authed.POST("/dogs/:id/orders", controllers.CreateOrder)
			authed.GET("/orders", controllers.ListMyOrders)
			authed.GET("/seller/orders", controllers.ListSellerOrders)
			authed.POST("/orders/:id/accept", controllers.AcceptOrder)
			authed.POST("/orders/:id/decline", controllers.DeclineOrder)
			authed.POST("/orders/:id/cancel", controllers.CancelOrder)
			authed.POST("/orders/:id/complete", controllers.CompleteOrder)
			authed.PUT("/orders/:id/tracking", controllers.UpdateTracking)

			authed.POST("/saved-searches", controllers.CreateSavedSearch)
			authed.GET("/saved-searches", controllers.ListSavedSearches)
			authed.DELETE("/saved-searches/:id", controllers.DeleteSavedSearch)

			authed.POST("/dogs/:id/messages", controllers.SendDogMessage)
			authed.GET("/conversations", controllers.ListConversations)
			authed.GET("/conversations/:id", controllers.GetConversation)
			authed.POST("/conversations/:id/messages", controllers.SendConversationMessage)

			authed.POST("/sellers/:id/reviews", controllers.CreateSellerReview)

			authed.POST("/dogs/:id/reports", controllers.CreateReport)
			authed.GET("/reports", controllers.ListReports)
			authed.POST("/reports/:id/resolve", controllers.ResolveReport)

			authed.POST("/accessories", controllers.CreateAccessory)
			authed.PUT("/accessories/:id", controllers.UpdateAccessory)
			authed.DELETE("/accessories/:id", controllers.DeleteAccessory)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "PawFinder API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
