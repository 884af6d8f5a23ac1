package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voltstore/catalog-api/internal/apperror"
)

// respondError translates the error taxonomy into the uniform error envelope.
// Anything outside the taxonomy answers 500 with a best-effort message.
func respondError(c *gin.Context, err error) {
	var validation *apperror.ValidationError
	var upload *apperror.UploadError
	var notFound *apperror.NotFoundError

	switch {
	case errors.As(err, &validation):
		body := gin.H{"error": validation.Msg}
		if len(validation.ValidStatuses) > 0 {
			body["validStatuses"] = validation.ValidStatuses
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.As(err, &upload):
		c.JSON(http.StatusBadRequest, gin.H{"error": upload.Msg})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.Is(err, apperror.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Database not connected"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "details": err.Error()})
	}
}
