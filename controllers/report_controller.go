package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pawfinder/pawfinder-api/config"
	"github.com/pawfinder/pawfinder-api/models"
)

// CreateReportRequest represents the request body for reporting a listing
type CreateReportRequest struct {
	Reason  string `json:"reason" binding:"required"`
	Details string `json:"details"`
}

// ResolveReportRequest represents the request body for closing a report
type ResolveReportRequest struct {
	Status string `json:"status" binding:"required,oneof=resolved dismissed"`
}

// CreateReport handles POST /api/v1/dogs/:id/reports - flags a listing for moderation
func CreateReport(c *gin.Context) {
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
	if err := db.First(&dog, dogID).Error; err != nil {
		errorResponse(c, http.StatusNotFound, "DOG_NOT_FOUND", "Dog not found")
		return
	}

	if dog.SellerID == user.ID {
		errorResponse(c, http.StatusForbidden, "FORBIDDEN", "You cannot report your own listing")
		return
	}

	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	report := models.Report{
		ReporterID: user.ID,
		DogID:      dog.ID,
		Reason:     req.Reason,
		Details:    req.Details,
		Status:     models.ReportStatusOpen,
	}
	if err := db.Create(&report).Error; err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create report")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    report,
	})
}

// ListReports handles GET /api/v1/reports - lists moderation reports (admins only)
func ListReports(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if !user.IsAdmin() {
		errorResponse(c, http.StatusForbidden, "FORBIDDEN", "Only admins can view reports")
		return
	}

	db := config.GetDB()
	query := db.Preload("Reporter").Preload("Dog")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var reports []models.Report
	if err := query.Order("created_at DESC").Find(&reports).Error; err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load reports")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    reports,
	})
}

// ResolveReport handles POST /api/v1/reports/:id/resolve - closes a report (admins only)
func ResolveReport(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if !user.IsAdmin() {
		errorResponse(c, http.StatusForbidden, "FORBIDDEN", "Only admins can resolve reports")
		return
	}

	db := config.GetDB()
	var report models.Report
	if err := db.First(&report, c.Param("id")).Error; err != nil {
		errorResponse(c, http.StatusNotFound, "REPORT_NOT_FOUND", "Report not found")
		return
	}

	if report.Status != models.ReportStatusOpen {
		errorResponse(c, http.StatusConflict, "REPORT_CLOSED", "This report has already been closed")
		return
	}

	var req ResolveReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":         req.Status,
		"resolved_by_id": user.ID,
		"resolved_at":    now,
	}
	if err := db.Model(&report).Updates(updates).Error; err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to resolve report")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    report,
	})
}
