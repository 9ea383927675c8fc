package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pawfinder/pawfinder-api/config"
	"github.com/pawfinder/pawfinder-api/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testRouterConfig returns a config good enough to build the route table.
// The JWKS provider only fetches keys when a token actually arrives.
func testRouterConfig() *config.Config {
	return &config.Config{
		Auth0Domain:   "pawfinder-test.auth0.com",
		Auth0Audience: "https://api.pawfinder.example",
	}
}

func setupIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Dog{}, &models.Favorite{}, &models.Order{},
		&models.SavedSearch{}, &models.Conversation{}, &models.Message{},
		&models.SellerReview{}, &models.Report{}, &models.Accessory{}, &models.CartItem{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// TestHealthEndpointIntegration tests the /api/v1/health endpoint with full routing
func TestHealthEndpointIntegration(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := setupRouter(testRouterConfig())

	req, _ := http.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, "Expected status 200 OK")

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err, "Response should be valid JSON")
	assert.Equal(t, true, response["success"])
	assert.Equal(t, "PawFinder API is running", response["message"])
}

// TestPublicBrowsingIntegration verifies listings are browsable without a token
func TestPublicBrowsingIntegration(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupIntegrationDB(t)
	config.SetDB(db)

	seller := models.User{Auth0ID: "auth0|seller", Name: "Seller", Email: "s@example.com", Role: "seller"}
	db.Create(&seller)
	db.Create(&models.Dog{
		Name: "Luna", Breed: "Labrador Retriever", AgeMonths: 6, Gender: "female",
		Price: 900, Location: "New York, NY", Status: models.DogStatusAvailable, SellerID: seller.ID,
	})

	router := setupRouter(testRouterConfig())

	req, _ := http.NewRequest("GET", "/api/v1/dogs", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response["data"].([]interface{}), 1)
}

// TestProtectedRoutesRequireToken verifies the JWT middleware guards the
// authenticated route group
func TestProtectedRoutesRequireToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupIntegrationDB(t)
	config.SetDB(db)

	router := setupRouter(testRouterConfig())

	protected := []struct {
		method string
		path   string
	}{
		{"GET", "/api/v1/users/me"},
		{"GET", "/api/v1/orders"},
		{"POST", "/api/v1/dogs"},
		{"GET", "/api/v1/favorites"},
		{"GET", "/api/v1/conversations"},
		{"GET", "/api/v1/dashboard"},
	}

	for _, route := range protected {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			req, _ := http.NewRequest(route.method, route.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code, "Response body: %s", w.Body.String())
			assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
		})
	}
}

// TestAPIV1Prefix tests that endpoints require the /api/v1 prefix
func TestAPIV1Prefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := setupRouter(testRouterConfig())

	req, _ := http.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code, "Endpoint should require /api/v1 prefix")

	req, _ = http.NewRequest("GET", "/api/v1/health", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, "Endpoint should work with /api/v1 prefix")
}
