package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pawfinder/pawfinder-api/config"
	"github.com/pawfinder/pawfinder-api/models"
	"gorm.io/gorm"
)

// AddAccessoryToCartRequest represents the request body for adding an accessory
type AddAccessoryToCartRequest struct {
	Quantity uint `json:"quantity"`
}

// cartToken reads and validates the X-Cart-Token header. Tokens are opaque
// UUIDs minted by the client on first use.
func cartToken(c *gin.Context) (string, bool) {
	token := strings.TrimSpace(c.GetHeader("X-Cart-Token"))
	if token == "" {
		errorResponse(c, http.StatusBadRequest, "CART_TOKEN_REQUIRED", "X-Cart-Token header is required")
		return "", false
	}
	if _, err := uuid.Parse(token); err != nil {
		errorResponse(c, http.StatusBadRequest, "INVALID_CART_TOKEN", "X-Cart-Token must be a valid UUID")
		return "", false
	}
	return token, true
}

func loadCartItems(db *gorm.DB, token string) ([]models.CartItem, error) {
	var items []models.CartItem
	err := db.Preload("Dog").Preload("Dog.Seller").Preload("Accessory").
		Where("cart_token = ?", token).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func cartTotal(items []models.CartItem) float64 {
	var total float64
	for _, item := range items {
		switch {
		case item.Dog != nil:
			total += item.Dog.Price
		case item.Accessory != nil:
			total += item.Accessory.Price * float64(item.Quantity)
		}
	}
	return total
}

// GetCart handles GET /api/v1/cart - returns the cart for the supplied token
func GetCart(c *gin.Context) {
	token, ok := cartToken(c)
	if !ok {
		return
	}

	items, err := loadCartItems(config.GetDB(), token)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items": items,
			"total": cartTotal(items),
			"count": len(items),
		},
	})
}

// AddDogToCart handles POST /api/v1/cart/dogs/:id - reserves a spot for a dog
// in the cart. Dogs are unique listings so quantity is always 1 and adding
// the same dog twice is a no-op.
func AddDogToCart(c *gin.Context) {
	token, ok := cartToken(c)
	if !ok {
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
	if dog.Status != models.DogStatusAvailable {
		errorResponse(c, http.StatusConflict, "DOG_UNAVAILABLE", "This dog is no longer available")
		return
	}

	id := uint(dogID)
	item := models.CartItem{CartToken: token, DogID: &id, Quantity: 1}
	if err := db.Where("cart_token = ? AND dog_id = ?", token, id).FirstOrCreate(&item).Error; err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to add dog to cart")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    item,
	})
}

// AddAccessoryToCart handles POST /api/v1/cart/accessories/:id - adds an
// accessory, bumping quantity if it is already in the cart
func AddAccessoryToCart(c *gin.Context) {
	token, ok := cartToken(c)
	if !ok {
		return
	}

	accessoryID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid accessory ID")
		return
	}

	// Body is optional; quantity defaults to 1.
	var req AddAccessoryToCartRequest
	_ = c.ShouldBindJSON(&req)
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	db := config.GetDB()
	var accessory models.Accessory
	if err := db.First(&accessory, accessoryID).Error; err != nil {
		errorResponse(c, http.StatusNotFound, "ACCESSORY_NOT_FOUND", "Accessory not found")
		return
	}
	if !accessory.IsAvailable {
		errorResponse(c, http.StatusConflict, "ACCESSORY_UNAVAILABLE", "This accessory is no longer available")
		return
	}

	id := uint(accessoryID)
	var item models.CartItem
	err = db.Where("cart_token = ? AND accessory_id = ?", token, id).First(&item).Error
	switch {
	case err == nil:
		if err := db.Model(&item).Update("quantity", item.Quantity+quantity).Error; err != nil {
			errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update cart item")
			return
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = models.CartItem{CartToken: token, AccessoryID: &id, Quantity: quantity}
		if err := db.Create(&item).Error; err != nil {
			errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to add accessory to cart")
			return
		}
	default:
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load cart")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    item,
	})
}

// ClaimCart handles POST /api/v1/cart/claim - associates the anonymous cart
// with the signed-in user. Items the user collected under an earlier token
// are folded into the current one: accessory quantities add up, and a dog
// already present is kept once.
func ClaimCart(c *gin.Context) {
	token, ok := cartToken(c)
	if !ok {
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		var stale []models.CartItem
		if err := tx.Where("user_id = ? AND cart_token != ?", user.ID, token).
			Find(&stale).Error; err != nil {
			return err
		}

		for _, old := range stale {
			var existing models.CartItem
			var lookup *gorm.DB
			switch {
			case old.AccessoryID != nil:
				lookup = tx.Where("cart_token = ? AND accessory_id = ?", token, *old.AccessoryID)
			case old.DogID != nil:
				lookup = tx.Where("cart_token = ? AND dog_id = ?", token, *old.DogID)
			default:
				continue
			}

			switch err := lookup.First(&existing).Error; {
			case err == nil:
				if old.AccessoryID != nil {
					if err := tx.Model(&existing).Update("quantity", existing.Quantity+old.Quantity).Error; err != nil {
						return err
					}
				}
				if err := tx.Delete(&old).Error; err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := tx.Model(&old).Update("cart_token", token).Error; err != nil {
					return err
				}
			default:
				return err
			}
		}

		return tx.Model(&models.CartItem{}).
			Where("cart_token = ?", token).
			Update("user_id", user.ID).Error
	})
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to claim cart")
		return
	}

	items, err := loadCartItems(db, token)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items": items,
			"total": cartTotal(items),
			"count": len(items),
		},
	})
}

// RemoveCartItem handles DELETE /api/v1/cart/items/:id - removes one item
// from the cart identified by the token
func RemoveCartItem(c *gin.Context) {
	token, ok := cartToken(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var item models.CartItem
	if err := db.Where("cart_token = ?", token).First(&item, c.Param("id")).Error; err != nil {
		errorResponse(c, http.StatusNotFound, "CART_ITEM_NOT_FOUND", "Cart item not found")
		return
	}

	if err := db.Delete(&item).Error; err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to remove cart item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Item removed from cart",
	})
}
