// internal/handlers/auth_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/TTMordred/long-chau-pharmacy-backend/internal/config"
	"github.com/TTMordred/long-chau-pharmacy-backend/internal/middleware"
	"github.com/TTMordred/long-chau-pharmacy-backend/internal/models"
	"github.com/TTMordred/long-chau-pharmacy-backend/internal/services"
	"github.com/TTMordred/long-chau-pharmacy-backend/internal/utils"
)

type AuthHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

func (s *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err)
	require.NoError(s.T(), db.AutoMigrate(&models.User{}))
	s.db = db

	cfg := &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
	}
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	authHandler := NewAuthHandler(services.NewAuthService(db, cfg))

	s.router = gin.New()
	auth := s.router.Group("/v1/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)

		protected := auth.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.GET("/me", authHandler.GetProfile)
		}
	}
}

func (s *AuthHandlerTestSuite) postJSON(path string, body map[string]interface{}) *httptest.ResponseRecorder {
	jsonData, err := json.Marshal(body)
	require.NoError(s.T(), err)

	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *AuthHandlerTestSuite) register() map[string]interface{} {
	w := s.postJSON("/v1/auth/register", map[string]interface{}{
		"username": "nguyenvana",
		"email":    "nguyen.van.a@example.com",
		"password": "TestPass123!",
	})
	require.Equal(s.T(), http.StatusCreated, w.Code, w.Body.String())

	var response map[string]interface{}
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func (s *AuthHandlerTestSuite) TestRegister() {
	response := s.register()

	assert.True(s.T(), response["success"].(bool))
	data := response["data"].(map[string]interface{})
	assert.NotEmpty(s.T(), data["token"])
	assert.NotEmpty(s.T(), data["refresh_token"])
	assert.Equal(s.T(), "Bearer", data["token_type"])

	// Self-registration always produces a customer account
	user := data["user"].(map[string]interface{})
	assert.Equal(s.T(), "customer", user["role"])
	assert.NotContains(s.T(), user, "password_hash")
}

func (s *AuthHandlerTestSuite) TestRegisterValidation() {
	w := s.postJSON("/v1/auth/register", map[string]interface{}{
		"username": "nguyenvana",
		"email":    "not-an-email",
		"password": "weak",
	})

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(s.T(), response["success"].(bool))
}

func (s *AuthHandlerTestSuite) TestLogin() {
	s.register()

	w := s.postJSON("/v1/auth/login", map[string]interface{}{
		"email":    "nguyen.van.a@example.com",
		"password": "TestPass123!",
	})
	assert.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())

	var response map[string]interface{}
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(s.T(), response["success"].(bool))
}

func (s *AuthHandlerTestSuite) TestLoginWrongPassword() {
	s.register()

	w := s.postJSON("/v1/auth/login", map[string]interface{}{
		"email":    "nguyen.van.a@example.com",
		"password": "WrongPass123!",
	})
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
}

func (s *AuthHandlerTestSuite) TestProfileRequiresToken() {
	req, _ := http.NewRequest("GET", "/v1/auth/me", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
}

func (s *AuthHandlerTestSuite) TestProfileWithToken() {
	response := s.register()
	token := response["data"].(map[string]interface{})["token"].(string)

	req, _ := http.NewRequest("GET", "/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())

	var profile map[string]interface{}
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &profile))
	user := profile["data"].(map[string]interface{})["user"].(map[string]interface{})
	assert.Equal(s.T(), "nguyenvana", user["username"])
}

func (s *AuthHandlerTestSuite) TestRefreshToken() {
	response := s.register()
	refreshToken := response["data"].(map[string]interface{})["refresh_token"].(string)

	w := s.postJSON("/v1/auth/refresh", map[string]interface{}{
		"refresh_token": refreshToken,
	})
	assert.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())

	var refreshed map[string]interface{}
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &refreshed))
	assert.NotEmpty(s.T(), refreshed["data"].(map[string]interface{})["token"])
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}
