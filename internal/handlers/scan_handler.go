package handlers

import (
	"errors"
	"net/http"

	"go-inventory-webapp/internal/models"
	"go-inventory-webapp/internal/repository"
	"go-inventory-webapp/internal/scan"

	"github.com/gin-gonic/gin"
)

// ScanHandler decodes uploaded camera frames server-side and resolves the
// decoded string to a product.
type ScanHandler struct {
	decoder     *scan.Decoder
	productRepo *repository.ProductRepository
}

func NewScanHandler(productRepo *repository.ProductRepository) *ScanHandler {
	return &ScanHandler{
		decoder:     scan.NewDecoder(),
		productRepo: productRepo,
	}
}

// Decode runs the server-side decoder on a base64 frame. When the decoded
// text matches a stored barcode, the product rides along in the response.
func (h *ScanHandler) Decode(c *gin.Context) {
	var req scan.DecodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "imageData is required"})
		return
	}

	result := h.decoder.Decode(&req)
	if !result.Success {
		c.JSON(http.StatusOK, gin.H{"decode": result})
		return
	}

	product, err := h.productRepo.GetByBarcode(result.Result.Text)
	if err != nil && !errors.Is(err, models.ErrProductNotFound) {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"decode":  result,
		"product": product,
	})
}
