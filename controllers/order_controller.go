package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pawfinder/pawfinder-api/config"
	"github.com/pawfinder/pawfinder-api/models"
	"github.com/pawfinder/pawfinder-api/services"
)

// CreateOrderRequest represents the request body for placing an order on a dog
type CreateOrderRequest struct {
	BuyerName  string  `json:"buyer_name" binding:"required"`
	BuyerEmail string  `json:"buyer_email" binding:"required,email"`
	BuyerPhone string  `json:"buyer_phone" binding:"required"`
	Message    *string `json:"message"`
}

// TrackingRequest represents the request body for a shipment tracking update
type TrackingRequest struct {
	ShipmentStatus    string  `json:"shipment_status" binding:"required"`
	Carrier           *string `json:"carrier"`
	TrackingNumber    *string `json:"tracking_number"`
	EstimatedDelivery *string `json:"estimated_delivery"` // "2006-01-02"
}

// orderServiceError maps an order-service error onto the HTTP envelope
func orderServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		errorResponse(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order or dog not found")
	case errors.Is(err, services.ErrForbidden):
		errorResponse(c, http.StatusForbidden, "FORBIDDEN", "You are not allowed to perform this action")
	case errors.Is(err, services.ErrUnavailable):
		errorResponse(c, http.StatusConflict, "DOG_UNAVAILABLE", "This dog is no longer available")
	case errors.Is(err, services.ErrDuplicateActiveOrder):
		errorResponse(c, http.StatusConflict, "DUPLICATE_ACTIVE_ORDER", "You already have an active order for this dog")
	case errors.Is(err, services.ErrAlreadyFinalized):
		errorResponse(c, http.StatusConflict, "ORDER_FINALIZED", "This order has already been finalized")
	case errors.Is(err, services.ErrInvalidTransition):
		errorResponse(c, http.StatusConflict, "INVALID_TRANSITION", "The order's current status does not permit this action")
	default:
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to process order")
	}
}

// CreateOrder handles POST /api/v1/dogs/:id/orders - reserves a dog (buyers only)
func CreateOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	dogID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid dog ID")
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	svc := services.NewOrderService(config.GetDB())
	order, events, err := svc.Reserve(user, uint(dogID), services.ReserveInput{
		BuyerName:  req.BuyerName,
		BuyerEmail: req.BuyerEmail,
		BuyerPhone: req.BuyerPhone,
		Message:    req.Message,
	})
	if err != nil {
		orderServiceError(c, err)
		return
	}

	// Notifications are best-effort and never fail the reservation
	services.GetDispatcher().Dispatch(events)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListMyOrders handles GET /api/v1/orders - lists the current buyer's orders
func ListMyOrders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var orders []models.Order
	if err := db.Preload("Dog").Preload("Dog.Seller").
		Where("buyer_id = ?", user.ID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// ListSellerOrders handles GET /api/v1/seller/orders - lists orders on the seller's dogs
func ListSellerOrders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if !user.IsSeller() {
		errorResponse(c, http.StatusForbidden, "FORBIDDEN", "Only sellers can view orders on their listings")
		return
	}

	db := config.GetDB()
	var orders []models.Order
	if err := db.Preload("Dog").Preload("Buyer").
		Joins("JOIN dogs ON dogs.id = orders.dog_id").
		Where("dogs.seller_id = ?", user.ID).
		Order("orders.created_at DESC").
		Find(&orders).Error; err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// transitionHandler builds a gin handler for one order lifecycle action
func transitionHandler(action func(*services.OrderService, *models.User, uint) (*models.Order, []services.Event, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			errorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid order ID")
			return
		}

		svc := services.NewOrderService(config.GetDB())
		order, events, err := action(svc, user, uint(orderID))
		if err != nil {
			orderServiceError(c, err)
			return
		}

		services.GetDispatcher().Dispatch(events)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    order,
		})
	}
}

// AcceptOrder handles POST /api/v1/orders/:id/accept - seller confirms a pending order
func AcceptOrder(c *gin.Context) {
	transitionHandler(func(svc *services.OrderService, u *models.User, id uint) (*models.Order, []services.Event, error) {
		return svc.Accept(u, id)
	})(c)
}

// DeclineOrder handles POST /api/v1/orders/:id/decline - seller declines a pending order
func DeclineOrder(c *gin.Context) {
	transitionHandler(func(svc *services.OrderService, u *models.User, id uint) (*models.Order, []services.Event, error) {
		return svc.Decline(u, id)
	})(c)
}

// CancelOrder handles POST /api/v1/orders/:id/cancel - buyer or seller cancels an active order
func CancelOrder(c *gin.Context) {
	transitionHandler(func(svc *services.OrderService, u *models.User, id uint) (*models.Order, []services.Event, error) {
		return svc.Cancel(u, id)
	})(c)
}

// CompleteOrder handles POST /api/v1/orders/:id/complete - seller completes a confirmed order
func CompleteOrder(c *gin.Context) {
	transitionHandler(func(svc *services.OrderService, u *models.User, id uint) (*models.Order, []services.Event, error) {
		return svc.Complete(u, id)
	})(c)
}

// UpdateTracking handles PUT /api/v1/orders/:id/tracking - seller updates shipment tracking
func UpdateTracking(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid order ID")
		return
	}

	var req TrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	svc := services.NewOrderService(config.GetDB())
	order, events, err := svc.UpdateTracking(user, uint(orderID), services.TrackingInput{
		ShipmentStatus:    req.ShipmentStatus,
		Carrier:           req.Carrier,
		TrackingNumber:    req.TrackingNumber,
		EstimatedDelivery: req.EstimatedDelivery,
	})
	if err != nil {
		orderServiceError(c, err)
		return
	}

	services.GetDispatcher().Dispatch(events)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}
