package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pawfinder/pawfinder-api/config"
	"github.com/pawfinder/pawfinder-api/controllers"
	"github.com/pawfinder/pawfinder-api/models"
	"github.com/pawfinder/pawfinder-api/services"
	"github.com/pawfinder/pawfinder-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// FileUploadIntegrationTestSuite defines the integration test suite for listing photo uploads
type FileUploadIntegrationTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	mockS3 *services.MockS3Service
}

// SetupSuite runs once before all tests
func (suite *FileUploadIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

// SetupTest runs before each test
func (suite *FileUploadIntegrationTestSuite) SetupTest() {
	// Setup in-memory database
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.NoError(err)
	suite.db = db

	err = db.AutoMigrate(&models.User{}, &models.Dog{})
	suite.NoError(err)

	config.SetDB(db)

	// Initialize mock S3 and the image service on top of it
	suite.mockS3 = services.NewMockS3Service()
	suite.mockS3.SetAsMockForTesting()
	services.InitImageService(suite.mockS3)

	suite.router = suite.createRouter("auth0|seller")
}

// TearDownTest runs after each test
func (suite *FileUploadIntegrationTestSuite) TearDownTest() {
	if suite.db != nil {
		sqlDB, _ := suite.db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	}
}

// createRouter creates a test router authenticated as the given user
func (suite *FileUploadIntegrationTestSuite) createRouter(auth0ID string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	auth := func(c *gin.Context) {
		testutil.SetMockAuthContext(c, auth0ID, "https://pawfinder-test.auth0.com/", models.RoleSeller, nil)
		c.Next()
	}

	v1 := router.Group("/api/v1")
	{
		v1.POST("/dogs/:id/images", auth, controllers.UploadDogImage)
		v1.DELETE("/dogs/:id/images/:slot", auth, controllers.DeleteDogImage)
		v1.GET("/dogs/:id", controllers.GetDog)
	}

	return router
}

func (suite *FileUploadIntegrationTestSuite) createSellerAndDog(auth0ID string) (models.User, models.Dog) {
	seller := models.User{
		Auth0ID: auth0ID,
		Name:    "Test Seller",
		Email:   auth0ID + "@test.com",
		Role:    models.RoleSeller,
	}
	suite.NoError(suite.db.Create(&seller).Error)

	dog := models.Dog{
		Name:      "Luna",
		Breed:     "Border Collie",
		AgeMonths: 8,
		Gender:    models.GenderFemale,
		Price:     950,
		Location:  "Austin, TX",
		Status:    models.DogStatusAvailable,
		SellerID:  seller.ID,
	}
	suite.NoError(suite.db.Create(&dog).Error)

	return seller, dog
}

// uploadRequest builds a multipart request for a listing photo upload
func (suite *FileUploadIntegrationTestSuite) uploadRequest(dogID uint, filename, slot string, content []byte) *http.Request {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("image", filename)
	suite.NoError(err)
	_, err = part.Write(content)
	suite.NoError(err)

	if slot != "" {
		suite.NoError(writer.WriteField("slot", slot))
	}
	suite.NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/dogs/%d/images", dogID), body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// TestUploadWorkflow_MainPhoto tests uploading a main listing photo end to end
func (suite *FileUploadIntegrationTestSuite) TestUploadWorkflow_MainPhoto() {
	_, dog := suite.createSellerAndDog("auth0|seller")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.uploadRequest(dog.ID, "luna.png", "", []byte("fake png content")))

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), response["success"].(bool))

	data := response["data"].(map[string]interface{})
	imageKey := data["image_key"].(string)
	assert.NotEmpty(suite.T(), imageKey)
	assert.NotEmpty(suite.T(), data["image_url"])

	// Object landed in storage and the key is recorded on the dog
	assert.True(suite.T(), suite.mockS3.HasFile(imageKey))

	var updatedDog models.Dog
	suite.db.First(&updatedDog, dog.ID)
	assert.NotNil(suite.T(), updatedDog.ImageKey)
	assert.Equal(suite.T(), imageKey, *updatedDog.ImageKey)

	// The public listing carries a presigned URL for the main photo
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/dogs/%d", dog.ID), nil)
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var getResponse map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &getResponse)
	assert.NoError(suite.T(), err)

	dogData := getResponse["data"].(map[string]interface{})
	assert.Contains(suite.T(), dogData["image_url"], imageKey)
}

// TestUploadWorkflow_ReplaceSlotDeletesOldObject tests that replacing a slot removes the old object
func (suite *FileUploadIntegrationTestSuite) TestUploadWorkflow_ReplaceSlotDeletesOldObject() {
	_, dog := suite.createSellerAndDog("auth0|seller")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.uploadRequest(dog.ID, "first.png", "1", []byte("first")))
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var first map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &first))
	firstKey := first["data"].(map[string]interface{})["image_key"].(string)

	w = httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.uploadRequest(dog.ID, "second.png", "1", []byte("second")))
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var second map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &second))
	secondKey := second["data"].(map[string]interface{})["image_key"].(string)

	assert.False(suite.T(), suite.mockS3.HasFile(firstKey), "replaced object should be deleted")
	assert.True(suite.T(), suite.mockS3.HasFile(secondKey))

	var updatedDog models.Dog
	suite.db.First(&updatedDog, dog.ID)
	assert.Equal(suite.T(), secondKey, *updatedDog.ImageKey)
}

// TestUploadWorkflow_SecondarySlots tests that secondary slots fill independent columns
func (suite *FileUploadIntegrationTestSuite) TestUploadWorkflow_SecondarySlots() {
	_, dog := suite.createSellerAndDog("auth0|seller")

	for _, slot := range []string{"2", "3", "4"} {
		w := httptest.NewRecorder()
		suite.router.ServeHTTP(w, suite.uploadRequest(dog.ID, "photo"+slot+".jpg", slot, []byte("jpg "+slot)))
		assert.Equal(suite.T(), http.StatusCreated, w.Code, "slot %s upload should succeed", slot)
	}

	var updatedDog models.Dog
	suite.db.First(&updatedDog, dog.ID)
	assert.Nil(suite.T(), updatedDog.ImageKey)
	assert.NotNil(suite.T(), updatedDog.ImageKey2)
	assert.NotNil(suite.T(), updatedDog.ImageKey3)
	assert.NotNil(suite.T(), updatedDog.ImageKey4)
}

// TestUploadWorkflow_InvalidFormat tests that non-image files are rejected
func (suite *FileUploadIntegrationTestSuite) TestUploadWorkflow_InvalidFormat() {
	_, dog := suite.createSellerAndDog("auth0|seller")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.uploadRequest(dog.ID, "notes.txt", "", []byte("not an image")))

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), response["success"].(bool))

	errorData := response["error"].(map[string]interface{})
	assert.Equal(suite.T(), "INVALID_FILE_FORMAT", errorData["code"])

	// Nothing recorded on the dog
	var updatedDog models.Dog
	suite.db.First(&updatedDog, dog.ID)
	assert.Nil(suite.T(), updatedDog.ImageKey)
}

// TestUploadWorkflow_NonOwnerForbidden tests that only the listing owner can upload photos
func (suite *FileUploadIntegrationTestSuite) TestUploadWorkflow_NonOwnerForbidden() {
	_, dog := suite.createSellerAndDog("auth0|seller")

	other := models.User{
		Auth0ID: "auth0|other-seller",
		Name:    "Other Seller",
		Email:   "other@test.com",
		Role:    models.RoleSeller,
	}
	suite.NoError(suite.db.Create(&other).Error)

	otherRouter := suite.createRouter(other.Auth0ID)

	w := httptest.NewRecorder()
	otherRouter.ServeHTTP(w, suite.uploadRequest(dog.ID, "sneaky.png", "", []byte("png")))

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)

	errorData := response["error"].(map[string]interface{})
	assert.Equal(suite.T(), "FORBIDDEN", errorData["code"])
}

// TestDeleteWorkflow_RemovesPhotoAndObject tests deleting a listing photo end to end
func (suite *FileUploadIntegrationTestSuite) TestDeleteWorkflow_RemovesPhotoAndObject() {
	_, dog := suite.createSellerAndDog("auth0|seller")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.uploadRequest(dog.ID, "luna.png", "", []byte("png")))
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var uploadResponse map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &uploadResponse))
	imageKey := uploadResponse["data"].(map[string]interface{})["image_key"].(string)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/v1/dogs/%d/images/1", dog.ID), nil)
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var updatedDog models.Dog
	suite.db.First(&updatedDog, dog.ID)
	assert.Nil(suite.T(), updatedDog.ImageKey)
	assert.False(suite.T(), suite.mockS3.HasFile(imageKey))
}

// TestDeleteWorkflow_EmptySlot tests deleting from a slot with no photo
func (suite *FileUploadIntegrationTestSuite) TestDeleteWorkflow_EmptySlot() {
	_, dog := suite.createSellerAndDog("auth0|seller")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/v1/dogs/%d/images/2", dog.ID), nil)
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)

	errorData := response["error"].(map[string]interface{})
	assert.Equal(suite.T(), "IMAGE_NOT_FOUND", errorData["code"])
}

// TestFileUploadIntegrationSuite runs the test suite
func TestFileUploadIntegrationSuite(t *testing.T) {
	suite.Run(t, new(FileUploadIntegrationTestSuite))
}
