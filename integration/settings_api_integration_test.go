package integration

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsAPI_Integration(t *testing.T) {
	testMongo := SetupTestMongo(t)
	defer testMongo.Cleanup(t)

	gin.SetMode(gin.TestMode)
	blobs := newMemoryBlobStore()
	router := setupCatalogRouter(testMongo, blobs)

	t.Run("get settings creates the singleton on first access", func(t *testing.T) {
		testMongo.ResetCollections(t)

		w := performRequest(router, http.MethodGet, "/settings", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var resp settingsEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Settings.ID)
		assert.Empty(t, resp.Settings.LandingTitle)

		// Repeated reads return the same document.
		w = performRequest(router, http.MethodGet, "/settings", nil)
		var second settingsEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
		assert.Equal(t, resp.Settings.ID, second.Settings.ID)
	})

	t.Run("put settings updates texts and images together", func(t *testing.T) {
		testMongo.ResetCollections(t)

		body, contentType := newMultipartBody(t, map[string]string{
			"landingTitle":       "  Voltstore  ",
			"landingDescription": "Electronics for everyone",
			"aboutText":          "Founded in a garage.",
			"servicesText":       "Repairs and delivery.",
		},
			pngFile("landingBanner", "banner.png"),
			pngFile("logo", "logo.png"),
		)
		w := performRequest(router, http.MethodPut, "/settings", body, contentType)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp settingsEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Settings updated successfully", resp.Message)
		assert.Equal(t, "Voltstore", resp.Settings.LandingTitle)
		assert.Equal(t, "Electronics for everyone", resp.Settings.LandingDescription)
		assert.Equal(t, "Founded in a garage.", resp.Settings.AboutText)
		assert.Equal(t, "Repairs and delivery.", resp.Settings.ServicesText)
		assert.NotEmpty(t, resp.Settings.LandingBanner)
		assert.NotEmpty(t, resp.Settings.LandingBannerPublicID)
		assert.NotEmpty(t, resp.Settings.Logo)
		assert.NotEmpty(t, resp.Settings.LogoPublicID)
	})

	t.Run("patch landing updates only the landing fields", func(t *testing.T) {
		testMongo.ResetCollections(t)

		body, contentType := newMultipartBody(t, map[string]string{"aboutText": "Keep me"})
		w := performRequest(router, http.MethodPut, "/settings", body, contentType)
		require.Equal(t, http.StatusOK, w.Code)

		payload := `{"landingTitle":"New Title","landingDescription":"New description"}`
		w = performRequest(router, http.MethodPatch, "/settings/landing", strings.NewReader(payload), "application/json")

		require.Equal(t, http.StatusOK, w.Code)
		var resp settingsEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "New Title", resp.Settings.LandingTitle)
		assert.Equal(t, "New description", resp.Settings.LandingDescription)
		assert.Equal(t, "Keep me", resp.Settings.AboutText)
	})

	t.Run("patch about and services update their sections", func(t *testing.T) {
		testMongo.ResetCollections(t)

		w := performRequest(router, http.MethodPatch, "/settings/about", strings.NewReader(`{"aboutText":"All about us"}`), "application/json")
		require.Equal(t, http.StatusOK, w.Code)
		var resp settingsEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "All about us", resp.Settings.AboutText)

		w = performRequest(router, http.MethodPatch, "/settings/services", strings.NewReader(`{"servicesText":"What we offer"}`), "application/json")
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "What we offer", resp.Settings.ServicesText)
		assert.Equal(t, "All about us", resp.Settings.AboutText)
	})

	t.Run("patch banner requires the image file", func(t *testing.T) {
		testMongo.ResetCollections(t)

		body, contentType := newMultipartBody(t, map[string]string{"unused": "field"})
		w := performRequest(router, http.MethodPatch, "/settings/banner", body, contentType)

		require.Equal(t, http.StatusBadRequest, w.Code)
		var resp errorPayload
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "banner image required", resp.Error)
	})

	t.Run("patch banner replaces the image and releases the old blob", func(t *testing.T) {
		testMongo.ResetCollections(t)

		body, contentType := newMultipartBody(t, nil, pngFile("landingBanner", "banner-v1.png"))
		w := performRequest(router, http.MethodPatch, "/settings/banner", body, contentType)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var first settingsEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
		oldID := first.Settings.LandingBannerPublicID
		require.NotEmpty(t, oldID)

		body, contentType = newMultipartBody(t, nil, pngFile("landingBanner", "banner-v2.png"))
		w = performRequest(router, http.MethodPatch, "/settings/banner", body, contentType)
		require.Equal(t, http.StatusOK, w.Code)

		var second settingsEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
		assert.NotEqual(t, oldID, second.Settings.LandingBannerPublicID)

		require.Eventually(t, func() bool {
			return blobs.Released(oldID)
		}, 2*time.Second, 20*time.Millisecond, "replaced banner should be released")
	})

	t.Run("patch logo requires the image file", func(t *testing.T) {
		testMongo.ResetCollections(t)

		body, contentType := newMultipartBody(t, nil)
		w := performRequest(router, http.MethodPatch, "/settings/logo", body, contentType)

		require.Equal(t, http.StatusBadRequest, w.Code)
		var resp errorPayload
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "logo image required", resp.Error)
	})

	t.Run("patch logo stores the new image", func(t *testing.T) {
		testMongo.ResetCollections(t)

		body, contentType := newMultipartBody(t, nil, pngFile("logo", "logo.png"))
		w := performRequest(router, http.MethodPatch, "/settings/logo", body, contentType)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp settingsEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Settings.Logo)
		assert.NotEmpty(t, resp.Settings.LogoPublicID)
	})

	t.Run("patch landing with a malformed body returns 400", func(t *testing.T) {
		w := performRequest(router, http.MethodPatch, "/settings/landing", strings.NewReader(`{broken`), "application/json")

		require.Equal(t, http.StatusBadRequest, w.Code)
		var resp errorPayload
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "invalid request body", resp.Error)
	})
}
