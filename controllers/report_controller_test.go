package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pawfinder/pawfinder-api/config"
	"github.com/pawfinder/pawfinder-api/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func createTestAdmin(t *testing.T, db *gorm.DB, auth0ID string) models.User {
	t.Helper()
	user := models.User{
		Auth0ID: auth0ID,
		Name:    "Admin " + auth0ID,
		Email:   auth0ID + "@example.com",
		Role:    models.RoleAdmin,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create admin: %v", err)
	}
	return user
}

func TestCreateReport(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	seller := createTestSeller(t, db, "auth0|seller1")
	buyer := createTestBuyer(t, db, "auth0|buyer1")
	createTestDog(t, db, seller.ID, models.DogStatusAvailable)

	t.Run("Buyer reports a listing", func(t *testing.T) {
		router := setupTestRouter()
		router.POST("/dogs/:id/reports", mockAuthMiddleware(buyer.Auth0ID, "buyer"), CreateReport)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(http.MethodPost, "/dogs/1/reports", map[string]interface{}{
			"reason":  "misleading_photos",
			"details": "The photos show a different breed.",
		}))

		assert.Equal(t, http.StatusCreated, w.Code, "Response body: %s", w.Body.String())

		var report models.Report
		assert.NoError(t, db.First(&report, 1).Error)
		assert.Equal(t, models.ReportStatusOpen, report.Status)
		assert.Equal(t, buyer.ID, report.ReporterID)
	})

	t.Run("Seller cannot report own listing", func(t *testing.T) {
		router := setupTestRouter()
		router.POST("/dogs/:id/reports", mockAuthMiddleware(seller.Auth0ID, "seller"), CreateReport)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(http.MethodPost, "/dogs/1/reports", map[string]interface{}{
			"reason": "spam",
		}))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Reason is required", func(t *testing.T) {
		router := setupTestRouter()
		router.POST("/dogs/:id/reports", mockAuthMiddleware(buyer.Auth0ID, "buyer"), CreateReport)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(http.MethodPost, "/dogs/1/reports", map[string]interface{}{}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListAndResolveReports(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	seller := createTestSeller(t, db, "auth0|seller1")
	buyer := createTestBuyer(t, db, "auth0|buyer1")
	admin := createTestAdmin(t, db, "auth0|admin1")
	dog := createTestDog(t, db, seller.ID, models.DogStatusAvailable)

	db.Create(&models.Report{ReporterID: buyer.ID, DogID: dog.ID, Reason: "spam", Status: models.ReportStatusOpen})

	t.Run("Non-admin cannot list reports", func(t *testing.T) {
		router := setupTestRouter()
		router.GET("/reports", mockAuthMiddleware(buyer.Auth0ID, "buyer"), ListReports)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Admin lists open reports", func(t *testing.T) {
		router := setupTestRouter()
		router.GET("/reports", mockAuthMiddleware(admin.Auth0ID, "admin"), ListReports)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports?status=open", nil))

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Len(t, response["data"].([]interface{}), 1)
	})

	t.Run("Admin resolves the report", func(t *testing.T) {
		router := setupTestRouter()
		router.POST("/reports/:id/resolve", mockAuthMiddleware(admin.Auth0ID, "admin"), ResolveReport)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(http.MethodPost, "/reports/1/resolve", map[string]interface{}{
			"status": "dismissed",
		}))

		assert.Equal(t, http.StatusOK, w.Code, "Response body: %s", w.Body.String())

		var report models.Report
		db.First(&report, 1)
		assert.Equal(t, models.ReportStatusDismissed, report.Status)
		assert.NotNil(t, report.ResolvedByID)
		assert.Equal(t, admin.ID, *report.ResolvedByID)
		assert.NotNil(t, report.ResolvedAt)
	})

	t.Run("Closed reports cannot be resolved again", func(t *testing.T) {
		router := setupTestRouter()
		router.POST("/reports/:id/resolve", mockAuthMiddleware(admin.Auth0ID, "admin"), ResolveReport)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(http.MethodPost, "/reports/1/resolve", map[string]interface{}{
			"status": "resolved",
		}))

		assert.Equal(t, http.StatusConflict, w.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		errorData := response["error"].(map[string]interface{})
		assert.Equal(t, "REPORT_CLOSED", errorData["code"])
	})
}
