package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/voltstore/catalog-api/internal/apperror"
	"github.com/voltstore/catalog-api/internal/service"
)

// SettingsController handles HTTP requests for the site configuration.
type SettingsController struct {
	configService *service.SiteConfigService
}

// NewSettingsController creates a new SettingsController with the given site
// config service.
func NewSettingsController(configService *service.SiteConfigService) *SettingsController {
	return &SettingsController{
		configService: configService,
	}
}

// GetSettings handles the HTTP GET request for the site configuration,
// creating the default one on first access.
func (sc *SettingsController) GetSettings(c *gin.Context) {
	settings, err := sc.configService.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings handles the HTTP PUT request updating any subset of the site
// configuration. The body is a multipart form with optional text fields and
// optional landingBanner and logo images.
func (sc *SettingsController) UpdateSettings(c *gin.Context) {
	var closers []func()
	defer func() { closeAll(closers) }()

	input := service.SiteConfigUpdateInput{}

	if raw, ok := c.GetPostForm("landingTitle"); ok {
		title := strings.TrimSpace(raw)
		input.LandingTitle = &title
	}
	if raw, ok := c.GetPostForm("landingDescription"); ok {
		description := raw
		input.LandingDescription = &description
	}
	if raw, ok := c.GetPostForm("aboutText"); ok {
		about := raw
		input.AboutText = &about
	}
	if raw, ok := c.GetPostForm("servicesText"); ok {
		services := raw
		input.ServicesText = &services
	}

	bannerHeader, err := formFile(c, "landingBanner")
	if err != nil {
		respondError(c, err)
		return
	}
	if bannerHeader != nil {
		file, closeFile, err := openImage(bannerHeader)
		closers = append(closers, closeFile)
		if err != nil {
			respondError(c, err)
			return
		}
		input.LandingBanner = &file
	}

	logoHeader, err := formFile(c, "logo")
	if err != nil {
		respondError(c, err)
		return
	}
	if logoHeader != nil {
		file, closeFile, err := openImage(logoHeader)
		closers = append(closers, closeFile)
		if err != nil {
			respondError(c, err)
			return
		}
		input.Logo = &file
	}

	sc.update(c, input)
}

// landingUpdateRequest is the JSON body of a landing-section update.
type landingUpdateRequest struct {
	LandingTitle       *string `json:"landingTitle"`
	LandingDescription *string `json:"landingDescription"`
}

// UpdateLanding handles the HTTP PATCH request updating the landing page
// title and description.
func (sc *SettingsController) UpdateLanding(c *gin.Context) {
	var req landingUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	input := service.SiteConfigUpdateInput{}
	if req.LandingTitle != nil {
		title := strings.TrimSpace(*req.LandingTitle)
		input.LandingTitle = &title
	}
	if req.LandingDescription != nil {
		input.LandingDescription = req.LandingDescription
	}

	sc.update(c, input)
}

// aboutUpdateRequest is the JSON body of an about-section update.
type aboutUpdateRequest struct {
	AboutText *string `json:"aboutText"`
}

// UpdateAbout handles the HTTP PATCH request updating the about page text.
func (sc *SettingsController) UpdateAbout(c *gin.Context) {
	var req aboutUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	sc.update(c, service.SiteConfigUpdateInput{AboutText: req.AboutText})
}

// servicesUpdateRequest is the JSON body of a services-section update.
type servicesUpdateRequest struct {
	ServicesText *string `json:"servicesText"`
}

// UpdateServices handles the HTTP PATCH request updating the services page
// text.
func (sc *SettingsController) UpdateServices(c *gin.Context) {
	var req servicesUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	sc.update(c, service.SiteConfigUpdateInput{ServicesText: req.ServicesText})
}

// UpdateBanner handles the HTTP PATCH request replacing the landing banner
// image. The multipart landingBanner file is required.
func (sc *SettingsController) UpdateBanner(c *gin.Context) {
	fh, err := formFile(c, "landingBanner")
	if err != nil {
		respondError(c, err)
		return
	}
	if fh == nil {
		respondError(c, apperror.NewValidation("banner image required"))
		return
	}

	file, closeFile, err := openImage(fh)
	defer closeFile()
	if err != nil {
		respondError(c, err)
		return
	}

	sc.update(c, service.SiteConfigUpdateInput{LandingBanner: &file})
}

// UpdateLogo handles the HTTP PATCH request replacing the site logo. The
// multipart logo file is required.
func (sc *SettingsController) UpdateLogo(c *gin.Context) {
	fh, err := formFile(c, "logo")
	if err != nil {
		respondError(c, err)
		return
	}
	if fh == nil {
		respondError(c, apperror.NewValidation("logo image required"))
		return
	}

	file, closeFile, err := openImage(fh)
	defer closeFile()
	if err != nil {
		respondError(c, err)
		return
	}

	sc.update(c, service.SiteConfigUpdateInput{Logo: &file})
}

func (sc *SettingsController) update(c *gin.Context, input service.SiteConfigUpdateInput) {
	settings, err := sc.configService.Update(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Settings updated successfully", "settings": settings})
}
