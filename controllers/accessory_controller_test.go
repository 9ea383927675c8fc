package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pawfinder/pawfinder-api/config"
	"github.com/pawfinder/pawfinder-api/models"
	"github.com/pawfinder/pawfinder-api/services"
	"github.com/stretchr/testify/assert"
)

func TestListAccessories(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	services.NewMockS3Service().SetAsMockForTesting()

	seller := createTestSeller(t, db, "auth0|seller1")

	brand := "PupCo"
	accessories := []models.Accessory{
		{Name: "Chew Toy", Price: 12.5, Category: "toys", Brand: &brand, SellerID: seller.ID, IsAvailable: true},
		{Name: "Dog Bed", Price: 80, Category: "bedding", SellerID: seller.ID, IsAvailable: true},
		{Name: "Old Leash", Price: 5, Category: "safety", SellerID: seller.ID, IsAvailable: false},
	}
	for i := range accessories {
		db.Create(&accessories[i])
	}

	router := setupTestRouter()
	router.GET("/accessories", ListAccessories)

	tests := []struct {
		name          string
		query         string
		expectedNames []string
	}{
		{"Lists only available accessories", "", []string{"Chew Toy", "Dog Bed"}},
		{"Category filter", "?category=toys", []string{"Chew Toy"}},
		{"Brand filter", "?brand=PupCo", []string{"Chew Toy"}},
		{"Price range", "?min_price=50", []string{"Dog Bed"}},
		{"Name search", "?search=bed", []string{"Dog Bed"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/accessories"+tt.query, nil))

			assert.Equal(t, http.StatusOK, w.Code)

			var response map[string]interface{}
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			data := response["data"].([]interface{})
			names := make([]string, 0, len(data))
			for _, a := range data {
				names = append(names, a.(map[string]interface{})["name"].(string))
			}
			assert.ElementsMatch(t, tt.expectedNames, names)
		})
	}
}

func TestAccessoryCRUD(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	services.NewMockS3Service().SetAsMockForTesting()

	seller := createTestSeller(t, db, "auth0|seller1")
	other := createTestSeller(t, db, "auth0|other")
	buyer := createTestBuyer(t, db, "auth0|buyer1")

	t.Run("Buyer cannot create accessories", func(t *testing.T) {
		router := setupTestRouter()
		router.POST("/accessories", mockAuthMiddleware(buyer.Auth0ID, "buyer"), CreateAccessory)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(http.MethodPost, "/accessories", map[string]interface{}{
			"name": "Chew Toy", "price": 12.5, "category": "toys",
		}))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Seller creates an accessory", func(t *testing.T) {
		router := setupTestRouter()
		router.POST("/accessories", mockAuthMiddleware(seller.Auth0ID, "seller"), CreateAccessory)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(http.MethodPost, "/accessories", map[string]interface{}{
			"name": "Chew Toy", "price": 12.5, "category": "toys", "quantity": 10,
		}))

		assert.Equal(t, http.StatusCreated, w.Code, "Response body: %s", w.Body.String())

		var accessory models.Accessory
		db.First(&accessory, 1)
		assert.Equal(t, seller.ID, accessory.SellerID)
		assert.Equal(t, uint(10), accessory.Quantity)
		assert.True(t, accessory.IsAvailable)
	})

	t.Run("Invalid category fails validation", func(t *testing.T) {
		router := setupTestRouter()
		router.POST("/accessories", mockAuthMiddleware(seller.Auth0ID, "seller"), CreateAccessory)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(http.MethodPost, "/accessories", map[string]interface{}{
			"name": "Widget", "price": 5, "category": "gadgets",
		}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Only the owner can update", func(t *testing.T) {
		router := setupTestRouter()
		router.PUT("/accessories/:id", mockAuthMiddleware(other.Auth0ID, "seller"), UpdateAccessory)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(http.MethodPut, "/accessories/1", map[string]interface{}{
			"price": 1.0,
		}))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Owner updates availability", func(t *testing.T) {
		router := setupTestRouter()
		router.PUT("/accessories/:id", mockAuthMiddleware(seller.Auth0ID, "seller"), UpdateAccessory)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(http.MethodPut, "/accessories/1", map[string]interface{}{
			"is_available": false,
			"price":        9.99,
		}))

		assert.Equal(t, http.StatusOK, w.Code)

		var accessory models.Accessory
		db.First(&accessory, 1)
		assert.False(t, accessory.IsAvailable)
		assert.Equal(t, 9.99, accessory.Price)
	})

	t.Run("Owner deletes the accessory", func(t *testing.T) {
		router := setupTestRouter()
		router.DELETE("/accessories/:id", mockAuthMiddleware(seller.Auth0ID, "seller"), DeleteAccessory)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/accessories/1", nil))

		assert.Equal(t, http.StatusOK, w.Code)

		var count int64
		db.Model(&models.Accessory{}).Count(&count)
		assert.Equal(t, int64(0), count)
	})
}
