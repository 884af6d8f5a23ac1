package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/voltstore/catalog-api/internal/apperror"
	"github.com/voltstore/catalog-api/internal/blobstore"
	"github.com/voltstore/catalog-api/internal/repository"
	"github.com/voltstore/catalog-api/internal/service"
)

// ProductController handles HTTP requests for product operations.
type ProductController struct {
	productService *service.ProductService
}

// NewProductController creates a new ProductController with the given product service.
func NewProductController(productService *service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

// CreateProduct handles the HTTP POST request for uploading a new product.
// The body is a multipart form carrying the text fields, the required main
// image and up to ten other photos.
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var closers []func()
	defer func() { closeAll(closers) }()

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		respondError(c, apperror.NewValidation("name required"))
		return
	}

	price, err := parsePrice(c.PostForm("price"))
	if err != nil {
		respondError(c, err)
		return
	}

	input := service.ProductInput{
		Name:            name,
		Price:           price,
		Description:     c.PostForm("description"),
		Classifications: strings.TrimSpace(c.PostForm("classifications")),
		StatusNote:      strings.TrimSpace(c.PostForm("statusNote")),
	}

	if raw, ok := c.GetPostForm("status"); ok && strings.TrimSpace(raw) != "" {
		status, err := parseStatus(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		input.Status = status
	}

	if raw, ok := c.GetPostForm("expectedArrival"); ok {
		arrival, err := parseArrival(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		input.ExpectedArrival = arrival
	}

	mainHeader, err := formFile(c, "mainImage")
	if err != nil {
		respondError(c, err)
		return
	}
	if mainHeader == nil {
		respondError(c, apperror.NewValidation("main image required"))
		return
	}
	mainFile, closeMain, err := openImage(mainHeader)
	closers = append(closers, closeMain)
	if err != nil {
		respondError(c, err)
		return
	}
	input.MainImage = mainFile

	otherHeaders := otherPhotoHeaders(c)
	if len(otherHeaders) > maxOtherPhotos {
		respondError(c, apperror.NewUpload("too many photos (max 10)"))
		return
	}
	for _, fh := range otherHeaders {
		file, closeFile, err := openImage(fh)
		closers = append(closers, closeFile)
		if err != nil {
			respondError(c, err)
			return
		}
		input.OtherPhotos = append(input.OtherPhotos, file)
	}

	product, err := pc.productService.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Product created successfully", "product": product})
}

// GetProduct handles the HTTP GET request for a single product by ID.
func (pc *ProductController) GetProduct(c *gin.Context) {
	product, err := pc.productService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// ListProducts handles the HTTP GET request for listing products, newest
// first. An optional status query parameter filters by equality; unknown
// values simply match nothing.
func (pc *ProductController) ListProducts(c *gin.Context) {
	products, err := pc.productService.List(c.Request.Context(), repository.ProductQuery{Status: c.Query("status")})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// ListProductsByStatus handles the HTTP GET request for listing products with
// the given status. Unlike the query-parameter filter, the path value must be
// a valid status and is rejected before the store is queried.
func (pc *ProductController) ListProductsByStatus(c *gin.Context) {
	status, err := parseStatus(c.Param("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	products, err := pc.productService.List(c.Request.Context(), repository.ProductQuery{Status: string(status)})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// UpdateProduct handles the HTTP PUT request updating any subset of a
// product's fields. Supplying a new main image or any other photos replaces
// the stored images wholesale.
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	var closers []func()
	defer func() { closeAll(closers) }()

	input := service.ProductUpdateInput{}

	if raw, ok := c.GetPostForm("name"); ok {
		name := strings.TrimSpace(raw)
		if name == "" {
			respondError(c, apperror.NewValidation("name required"))
			return
		}
		input.Name = &name
	}
	if raw, ok := c.GetPostForm("price"); ok {
		price, err := parsePrice(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		input.Price = &price
	}
	if raw, ok := c.GetPostForm("description"); ok {
		description := raw
		input.Description = &description
	}
	if raw, ok := c.GetPostForm("classifications"); ok {
		classifications := strings.TrimSpace(raw)
		input.Classifications = &classifications
	}
	if raw, ok := c.GetPostForm("status"); ok && strings.TrimSpace(raw) != "" {
		status, err := parseStatus(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		input.Status = &status
	}
	if raw, ok := c.GetPostForm("statusNote"); ok {
		note := strings.TrimSpace(raw)
		input.StatusNote = &note
	}
	if raw, ok := c.GetPostForm("expectedArrival"); ok {
		arrival, err := parseArrival(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		input.ExpectedArrival = repository.OptionalTime{Set: true, Value: arrival}
	}

	mainHeader, err := formFile(c, "mainImage")
	if err != nil {
		respondError(c, err)
		return
	}
	if mainHeader != nil {
		file, closeFile, err := openImage(mainHeader)
		closers = append(closers, closeFile)
		if err != nil {
			respondError(c, err)
			return
		}
		input.MainImage = &file
	}

	otherHeaders := otherPhotoHeaders(c)
	if len(otherHeaders) > maxOtherPhotos {
		respondError(c, apperror.NewUpload("too many photos (max 10)"))
		return
	}
	if len(otherHeaders) > 0 {
		photos := make([]blobstore.File, 0, len(otherHeaders))
		for _, fh := range otherHeaders {
			file, closeFile, err := openImage(fh)
			closers = append(closers, closeFile)
			if err != nil {
				respondError(c, err)
				return
			}
			photos = append(photos, file)
		}
		input.OtherPhotos = &photos
	}

	product, err := pc.productService.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
}

// statusUpdateRequest is the JSON body of a status-only update. All fields
// are optional; expectedArrival distinguishes absent from explicit empty so
// an empty value clears the stored date.
type statusUpdateRequest struct {
	Status          *string        `json:"status"`
	StatusNote      *string        `json:"statusNote"`
	ExpectedArrival optionalString `json:"expectedArrival"`
}

// UpdateProductStatus handles the HTTP PATCH request updating only the
// status, status note and expected arrival of a product.
func (pc *ProductController) UpdateProductStatus(c *gin.Context) {
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	input := service.StatusUpdateInput{}
	if req.Status != nil {
		status, err := parseStatus(*req.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		input.Status = &status
	}
	if req.StatusNote != nil {
		note := strings.TrimSpace(*req.StatusNote)
		input.StatusNote = &note
	}
	if req.ExpectedArrival.Set {
		arrival, err := parseArrival(req.ExpectedArrival.Value)
		if err != nil {
			respondError(c, err)
			return
		}
		input.ExpectedArrival = repository.OptionalTime{Set: true, Value: arrival}
	}

	product, err := pc.productService.UpdateStatus(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product status updated successfully", "product": product})
}

// DeleteProduct handles the HTTP DELETE request for deleting a product by ID.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	if err := pc.productService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
