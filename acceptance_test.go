package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// TestServerStartup verifies the full route table can be built
func TestServerStartup(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := setupRouter(testRouterConfig())
	assert.NotNil(t, router, "Router should be initialized")
}

// TestAPIHealthEndpointAcceptance simulates a real client request against
// the fully configured router
func TestAPIHealthEndpointAcceptance(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := setupRouter(testRouterConfig())

	req, err := http.NewRequest("GET", "/api/v1/health", nil)
	assert.NoError(t, err, "Should be able to create request")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, "Health endpoint should return 200 OK")

	var response struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err, "Response should be valid JSON")
	assert.True(t, response.Success, "Success field should be true")
	assert.Equal(t, "PawFinder API is running", response.Message)
}

// TestHealthEndpointAvailability tests that the health endpoint answers consistently
func TestHealthEndpointAvailability(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := setupRouter(testRouterConfig())

	for i := 0; i < 5; i++ {
		req, _ := http.NewRequest("GET", "/api/v1/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code,
			fmt.Sprintf("Request %d should succeed", i+1))

		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, true, response["success"],
			fmt.Sprintf("Request %d should have success=true", i+1))
	}
}

// TestHealthEndpointResponseTime tests that the endpoint responds quickly
func TestHealthEndpointResponseTime(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := setupRouter(testRouterConfig())

	req, _ := http.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()

	start := time.Now()
	router.ServeHTTP(w, req)
	duration := time.Since(start)

	assert.Less(t, duration, 100*time.Millisecond,
		"Health endpoint should respond in less than 100ms")
}
