package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pawfinder/pawfinder-api/config"
	"github.com/pawfinder/pawfinder-api/models"
)

// SendMessageRequest represents the request body for sending a message
type SendMessageRequest struct {
	Subject *string `json:"subject"`
	Content string  `json:"content" binding:"required"`
}

// SendDogMessage handles POST /api/v1/dogs/:id/messages - starts or
// continues a conversation with the dog's seller
func SendDogMessage(c *gin.Context) {
	user, ok := currentUser(c)
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
	if err := db.Preload("Seller").First(&dog, dogID).Error; err != nil {
		errorResponse(c, http.StatusNotFound, "DOG_NOT_FOUND", "Dog not found")
		return
	}

	if dog.SellerID == user.ID {
		errorResponse(c, http.StatusForbidden, "FORBIDDEN", "You cannot send a message to yourself")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	// Find or create the buyer/seller conversation about this dog
	var conversation models.Conversation
	err = db.Where("dog_id = ? AND buyer_id = ? AND seller_id = ?", dog.ID, user.ID, dog.SellerID).
		First(&conversation).Error
	if err != nil {
		id := dog.ID
		conversation = models.Conversation{
			DogID:    &id,
			BuyerID:  user.ID,
			SellerID: dog.SellerID,
		}
		if err := db.Create(&conversation).Error; err != nil {
			errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create conversation")
			return
		}
	}

	message := models.Message{
		ConversationID: conversation.ID,
		SenderID:       user.ID,
		ReceiverID:     dog.SellerID,
		Subject:        req.Subject,
		Content:        req.Content,
	}
	if err := db.Create(&message).Error; err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to send message")
		return
	}

	db.Model(&conversation).Update("updated_at", time.Now())

	c.JSON(http.StatusCreated, gin.H{
		"success":         true,
		"data":            message,
		"conversation_id": conversation.ID,
	})
}

// ListConversations handles GET /api/v1/conversations - the user's inbox
func ListConversations(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var conversations []models.Conversation
	if err := db.Preload("Buyer").Preload("Seller").Preload("Dog").
		Where("buyer_id = ? OR seller_id = ?", user.ID, user.ID).
		Order("updated_at DESC").
		Find(&conversations).Error; err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load conversations")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    conversations,
	})
}

// GetConversation handles GET /api/v1/conversations/:id - returns the
// conversation's messages and marks the user's unread ones as read
func GetConversation(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var conversation models.Conversation
	if err := db.Preload("Buyer").Preload("Seller").Preload("Dog").
		First(&conversation, c.Param("id")).Error; err != nil {
		errorResponse(c, http.StatusNotFound, "CONVERSATION_NOT_FOUND", "Conversation not found")
		return
	}

	if !conversation.HasParticipant(user.ID) {
		errorResponse(c, http.StatusForbidden, "FORBIDDEN", "You are not part of this conversation")
		return
	}

	var messages []models.Message
	if err := db.Preload("Sender").
		Where("conversation_id = ?", conversation.ID).
		Order("sent_at ASC").
		Find(&messages).Error; err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load messages")
		return
	}

	// Mark the caller's unread messages as read
	now := time.Now()
	db.Model(&models.Message{}).
		Where("conversation_id = ? AND receiver_id = ? AND is_read = ?", conversation.ID, user.ID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"conversation": conversation,
		"data":         messages,
	})
}

// SendConversationMessage handles POST /api/v1/conversations/:id/messages -
// replies within an existing conversation
func SendConversationMessage(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var conversation models.Conversation
	if err := db.First(&conversation, c.Param("id")).Error; err != nil {
		errorResponse(c, http.StatusNotFound, "CONVERSATION_NOT_FOUND", "Conversation not found")
		return
	}

	if !conversation.HasParticipant(user.ID) {
		errorResponse(c, http.StatusForbidden, "FORBIDDEN", "You are not part of this conversation")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	message := models.Message{
		ConversationID: conversation.ID,
		SenderID:       user.ID,
		ReceiverID:     conversation.OtherParticipantID(user.ID),
		Subject:        req.Subject,
		Content:        req.Content,
	}
	if err := db.Create(&message).Error; err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to send message")
		return
	}

	db.Model(&conversation).Update("updated_at", time.Now())

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    message,
	})
}
