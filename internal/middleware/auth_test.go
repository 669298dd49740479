package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/prejudice-risk-backend/internal/db"
	"github.com/yungbote/prejudice-risk-backend/internal/logger"
	"github.com/yungbote/prejudice-risk-backend/internal/repos"
	"github.com/yungbote/prejudice-risk-backend/internal/services"
)

var dbSeq int64

func newAuthRouter(t *testing.T) (*gin.Engine, services.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:middleware%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	gormDB, err := db.NewSQLite(dsn)
	require.NoError(t, err)

	log := logger.NewNop()
	auth := services.NewAuthService(log, repos.NewAPIKeyRepo(gormDB, log))

	router := gin.New()
	router.Use(NewAuthMiddleware(log, auth).RequireAPIKey())
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router, auth
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestRequireAPIKeyMissingHeader(t *testing.T) {
	router, _ := newAuthRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Missing or invalid Authorization header", errorBody(t, rec))
}

func TestRequireAPIKeyWrongScheme(t *testing.T) {
	router, _ := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer sometoken")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Missing or invalid Authorization header", errorBody(t, rec))
}

func TestRequireAPIKeyUnknownKey(t *testing.T) {
	router, _ := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "ApiKey prfk_unknown")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid API key", errorBody(t, rec))
}

func TestRequireAPIKeyValidKey(t *testing.T) {
	router, auth := newAuthRouter(t)

	created, err := auth.CreateKey(context.Background(), services.APIKeyInput{
		Name:      strp("test"),
		CreatedBy: strp("tests"),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "ApiKey "+created.APIKey)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAPIKeyRevokedKey(t *testing.T) {
	router, auth := newAuthRouter(t)
	ctx := context.Background()

	created, err := auth.CreateKey(ctx, services.APIKeyInput{
		Name:      strp("test"),
		CreatedBy: strp("tests"),
	})
	require.NoError(t, err)
	_, err = auth.RevokeKey(ctx, created.KeyID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "ApiKey "+created.APIKey)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "API key is inactive", errorBody(t, rec))
}

func strp(s string) *string { return &s }
