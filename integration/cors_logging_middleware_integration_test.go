package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCORSMiddleware_Integration(t *testing.T) {
	testMongo := SetupTestMongo(t)
	defer testMongo.Cleanup(t)

	gin.SetMode(gin.TestMode)
	blobs := newMemoryBlobStore()
	router := setupCatalogRouter(testMongo, blobs)

	t.Run("CORS headers are present on catalog responses", func(t *testing.T) {
		testMongo.ResetCollections(t)

		w := performRequest(router, http.MethodGet, "/products", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST, PUT, PATCH, DELETE, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type, Authorization", w.Header().Get("Access-Control-Allow-Headers"))
		assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("CORS preflight OPTIONS request returns 204 No Content", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/products", nil)
		req.Header.Set("Origin", "http://example.com")
		req.Header.Set("Access-Control-Request-Method", "POST")
		req.Header.Set("Access-Control-Request-Headers", "Content-Type")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST, PUT, PATCH, DELETE, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	})

	t.Run("CORS headers are present on rejected requests", func(t *testing.T) {
		testMongo.ResetCollections(t)

		// Missing fields make this a 400, the headers must still be set.
		body, contentType := newMultipartBody(t, map[string]string{"price": "10"})
		w := performRequest(router, http.MethodPost, "/products/upload", body, contentType)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestLoggingMiddleware_Integration(t *testing.T) {
	testMongo := SetupTestMongo(t)
	defer testMongo.Cleanup(t)

	gin.SetMode(gin.TestMode)
	blobs := newMemoryBlobStore()
	router := setupCatalogRouter(testMongo, blobs)

	t.Run("Logger middleware logs requests to the catalog API", func(t *testing.T) {
		testMongo.ResetCollections(t)

		// Logging happens in the background, so we just verify the request worked
		w := performRequest(router, http.MethodGet, "/products", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp, "products")
	})

	t.Run("Logger middleware logs error status codes", func(t *testing.T) {
		testMongo.ResetCollections(t)

		body, contentType := newMultipartBody(t, map[string]string{"name": "No Price"})
		w := performRequest(router, http.MethodPost, "/products/upload", body, contentType)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
