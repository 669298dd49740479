package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/prejudice-risk-backend/internal/apperr"
	"github.com/yungbote/prejudice-risk-backend/internal/logger"
	"github.com/yungbote/prejudice-risk-backend/internal/services"
)

type AuthHandler struct {
	log  *logger.Logger
	auth services.AuthService
}

func NewAuthHandler(log *logger.Logger, auth services.AuthService) *AuthHandler {
	return &AuthHandler{
		log:  log.With("handler", "AuthHandler"),
		auth: auth,
	}
}

func (ah *AuthHandler) CreateKey(c *gin.Context) {
	var input services.APIKeyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
		return
	}

	created, err := ah.auth.CreateKey(c.Request.Context(), input)
	if err != nil {
		respondError(c, ah.log, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (ah *AuthHandler) ListKeys(c *gin.Context) {
	keys, err := ah.auth.ListKeys(c.Request.Context())
	if err != nil {
		respondError(c, ah.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"api_keys": keys})
}

func (ah *AuthHandler) GetKey(c *gin.Context) {
	keyID := c.Param("keyID")
	key, err := ah.auth.GetKey(c.Request.Context(), keyID)
	if err != nil {
		respondErrorNamed(c, ah.log, err, "API key "+keyID+" not found")
		return
	}
	c.JSON(http.StatusOK, key)
}

func (ah *AuthHandler) UpdateKey(c *gin.Context) {
	keyID := c.Param("keyID")

	var input services.APIKeyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
		return
	}

	key, err := ah.auth.UpdateKey(c.Request.Context(), keyID, input)
	if err != nil {
		respondErrorNamed(c, ah.log, err, "API key "+keyID+" not found")
		return
	}
	c.JSON(http.StatusOK, key)
}

func (ah *AuthHandler) DeleteKey(c *gin.Context) {
	keyID := c.Param("keyID")
	result, err := ah.auth.DeleteKey(c.Request.Context(), keyID)
	if err != nil {
		respondErrorNamed(c, ah.log, err, "API key "+keyID+" not found")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (ah *AuthHandler) RevokeKey(c *gin.Context) {
	keyID := c.Param("keyID")
	result, err := ah.auth.RevokeKey(c.Request.Context(), keyID)
	if err != nil {
		respondErrorNamed(c, ah.log, err, "API key "+keyID+" not found")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (ah *AuthHandler) RotateKey(c *gin.Context) {
	keyID := c.Param("keyID")
	result, err := ah.auth.RotateKey(c.Request.Context(), keyID)
	if err != nil {
		respondErrorNamed(c, ah.log, err, "API key "+keyID+" not found")
		return
	}
	c.JSON(http.StatusOK, result)
}

// Validate checks a presented key without requiring prior authentication.
func (ah *AuthHandler) Validate(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) <= 7 || !strings.EqualFold(authHeader[:7], "ApiKey ") {
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false, "error": "Missing or invalid Authorization header"})
		return
	}

	result, err := ah.auth.Validate(c.Request.Context(), strings.TrimSpace(authHeader[7:]))
	if err != nil {
		if errors.Is(err, apperr.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"valid": false, "error": err.Error()})
			return
		}
		ah.log.Error("Key validation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"valid": false, "error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, result)
}
