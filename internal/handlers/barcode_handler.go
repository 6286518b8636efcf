package handlers

import (
	"fmt"
	"net/http"

	"go-inventory-webapp/internal/models"
	"go-inventory-webapp/internal/repository"
	"go-inventory-webapp/internal/services"

	"github.com/gin-gonic/gin"
)

// BarcodeHandler serves barcode and QR images plus printable label sheets
// for existing products. It renders the stored barcode string only; it
// never allocates one.
type BarcodeHandler struct {
	productRepo    *repository.ProductRepository
	barcodeService *services.BarcodeService
}

func NewBarcodeHandler(productRepo *repository.ProductRepository, barcodeService *services.BarcodeService) *BarcodeHandler {
	return &BarcodeHandler{
		productRepo:    productRepo,
		barcodeService: barcodeService,
	}
}

func (h *BarcodeHandler) GetProductBarcode(c *gin.Context) {
	product, ok := h.loadProduct(c)
	if !ok {
		return
	}

	pngBytes, err := h.barcodeService.GenerateBarcode(product.Barcode)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%s.png", product.Barcode))
	c.Data(http.StatusOK, "image/png", pngBytes)
}

func (h *BarcodeHandler) GetProductQRCode(c *gin.Context) {
	product, ok := h.loadProduct(c)
	if !ok {
		return
	}

	pngBytes, err := h.barcodeService.GenerateQRCode(product.Barcode, 256)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%s-qr.png", product.Barcode))
	c.Data(http.StatusOK, "image/png", pngBytes)
}

// GetLabelSheet renders a printable PDF of barcode labels for all products,
// or for the filtered set when query filters are given.
func (h *BarcodeHandler) GetLabelSheet(c *gin.Context) {
	params := &models.FilterParams{}
	if err := c.ShouldBindQuery(params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	products, err := h.productRepo.List(params)
	if err != nil {
		respondError(c, err)
		return
	}

	pdfBytes, err := h.barcodeService.GenerateLabelSheet(products)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=labels.pdf")
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

func (h *BarcodeHandler) loadProduct(c *gin.Context) (*models.Product, bool) {
	id, ok := parseID(c)
	if !ok {
		return nil, false
	}
	product, err := h.productRepo.GetByID(id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return product, true
}
