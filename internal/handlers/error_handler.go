package handlers

import (
	"errors"
	"log"
	"net/http"

	"go-inventory-webapp/internal/models"

	"github.com/gin-gonic/gin"
)

// respondError translates the service-level error taxonomy into HTTP
// statuses. This is the only place status codes are chosen; the layers
// below only know not-found, conflict and unavailable.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrProductNotFound),
		errors.Is(err, models.ErrGroupNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrBarcodeConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrStorageUnavailable):
		log.Printf("❌ Storage unavailable: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Database connection failed"})
	default:
		var invariant *models.InvariantError
		if errors.As(err, &invariant) {
			log.Printf("❌ Invariant violation surfaced: %v", err)
		} else {
			log.Printf("❌ Internal error: %v", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
