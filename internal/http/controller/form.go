package controller

import (
	"encoding/json"
	"errors"
	"math"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/gin-gonic/gin"
	"github.com/voltstore/catalog-api/internal/apperror"
	"github.com/voltstore/catalog-api/internal/blobstore"
	"github.com/voltstore/catalog-api/internal/model"
)

// Upload constraints for image files.
const (
	maxImageSize   = 10 << 20
	maxOtherPhotos = 10
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".svg":  true,
}

// optionalString distinguishes an absent JSON field from an explicitly
// supplied empty or null value.
type optionalString struct {
	Set   bool
	Value string
}

func (o *optionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// parsePrice accepts any finite non-negative number.
func parsePrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return 0, apperror.NewValidation("invalid price")
	}
	return price, nil
}

// parseStatus maps a wire status value onto the closed enum.
func parseStatus(raw string) (model.Status, error) {
	status, ok := model.ParseStatus(strings.TrimSpace(raw))
	if !ok {
		return "", apperror.NewInvalidStatus(model.ValidStatuses())
	}
	return status, nil
}

// parseArrival parses an expected arrival value. Empty input means the field
// is being cleared and yields a nil time.
func parseArrival(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	ts, err := dateparse.ParseAny(raw)
	if err != nil {
		return nil, apperror.NewValidation("invalid expected arrival")
	}
	ts = ts.UTC()
	return &ts, nil
}

// validateImage enforces the upload constraints on one file header.
func validateImage(fh *multipart.FileHeader) error {
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		return apperror.NewUpload("only image uploads are allowed")
	}
	if fh.Size > maxImageSize {
		return apperror.NewUpload("image too large (max 10MB)")
	}
	if !allowedImageExts[strings.ToLower(filepath.Ext(fh.Filename))] {
		return apperror.NewUpload("unsupported image format")
	}
	return nil
}

// openImage validates a file header and opens it as a blob store file. The
// returned closer must run once the blob store consumed the reader.
func openImage(fh *multipart.FileHeader) (blobstore.File, func(), error) {
	if err := validateImage(fh); err != nil {
		return blobstore.File{}, func() {}, err
	}

	f, err := fh.Open()
	if err != nil {
		return blobstore.File{}, func() {}, err
	}

	file := blobstore.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Reader:      f,
	}
	return file, func() { _ = f.Close() }, nil
}

// formFile returns the single file uploaded under name, or nil when the field
// is absent.
func formFile(c *gin.Context, name string) (*multipart.FileHeader, error) {
	fh, err := c.FormFile(name)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	return fh, nil
}

// otherPhotoHeaders returns the files uploaded under otherPhotos, empty when
// the field is absent.
func otherPhotoHeaders(c *gin.Context) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File["otherPhotos"]
}

// closeAll runs the file closers gathered while parsing a form.
func closeAll(closers []func()) {
	for _, fn := range closers {
		fn()
	}
}
