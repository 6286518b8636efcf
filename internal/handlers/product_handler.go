package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"go-inventory-webapp/internal/models"
	"go-inventory-webapp/internal/repository"
	"go-inventory-webapp/internal/services"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	productRepo    *repository.ProductRepository
	productService *services.ProductService
	images         *services.LocalImageStore
}

func NewProductHandler(productRepo *repository.ProductRepository, productService *services.ProductService, images *services.LocalImageStore) *ProductHandler {
	return &ProductHandler{
		productRepo:    productRepo,
		productService: productService,
		images:         images,
	}
}

// ListProducts returns all products, optionally filtered by exact barcode
// or a name/barcode search term.
func (h *ProductHandler) ListProducts(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	product, err := h.productRepo.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("❌ Error binding product JSON: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid product data: %v", err)})
		return
	}

	product, err := h.productService.CreateProduct(&req)
	if err != nil {
		if product != nil {
			// The row was committed before group attachment failed; the
			// product exists, ungrouped. Report both.
			log.Printf("⚠️  Product %d created but group attachment failed: %v", product.ProductID, err)
			c.JSON(http.StatusCreated, gin.H{
				"product": product,
				"warning": err.Error(),
			})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": product})
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("❌ Error binding product JSON for update: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid product data: %v", err)})
		return
	}

	product, err := h.productService.UpdateProduct(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// BulkAssignGroup attaches one group to many products in a single request.
func (h *ProductHandler) BulkAssignGroup(c *gin.Context) {
	var req models.BulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group_id or product_ids"})
		return
	}

	group, err := h.productService.BulkAssignGroup(req.GroupID, req.ProductIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Group assigned to products successfully",
		"group":   group,
	})
}

// UploadProductImage stores an uploaded image and attaches its reference to
// the product, releasing any previously stored file.
func (h *ProductHandler) UploadProductImage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	file, _, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	defer file.Close()

	ref, err := h.images.Save(file)
	if err != nil {
		log.Printf("❌ Error storing product image: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid image: %v", err)})
		return
	}

	product, err := h.productService.AttachImage(id, ref)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

func parseID(c *gin.Context) (uint, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return uint(id), true
}
