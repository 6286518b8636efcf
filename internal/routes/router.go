package routes

import (
	"net/http"
	"time"

	"go-inventory-webapp/internal/handlers"
	"go-inventory-webapp/internal/logger"
	"go-inventory-webapp/internal/middleware"
	"go-inventory-webapp/internal/repository"

	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Products *handlers.ProductHandler
	Groups   *handlers.GroupHandler
	Barcodes *handlers.BarcodeHandler
	Scans    *handlers.ScanHandler
}

// Setup wires the API routes, static uploads and the status endpoint.
func Setup(db *repository.Database, h Handlers, appLogger *logger.StructuredLogger, uploadsDir string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	monitor := middleware.NewPerformanceMonitor(500 * time.Millisecond)
	router.Use(monitor.Middleware())
	if appLogger != nil {
		router.Use(appLogger.RequestMiddleware())
	}

	router.Static("/uploads", uploadsDir)

	api := router.Group("/api/v1")
	{
		api.GET("/products", h.Products.ListProducts)
		api.POST("/products", h.Products.CreateProduct)
		api.GET("/products/:id", h.Products.GetProduct)
		api.PUT("/products/:id", h.Products.UpdateProduct)
		api.DELETE("/products/:id", h.Products.DeleteProduct)
		api.POST("/products/:id/image", h.Products.UploadProductImage)
		api.POST("/products/assign-group", h.Products.BulkAssignGroup)

		api.GET("/products/:id/barcode.png", h.Barcodes.GetProductBarcode)
		api.GET("/products/:id/qrcode.png", h.Barcodes.GetProductQRCode)
		api.GET("/products/labels.pdf", h.Barcodes.GetLabelSheet)

		api.GET("/groups", h.Groups.ListGroups)
		api.POST("/groups", h.Groups.CreateGroup)
		api.GET("/groups/:id", h.Groups.GetGroup)
		api.PUT("/groups/:id", h.Groups.UpdateGroup)
		api.DELETE("/groups/:id", h.Groups.DeleteGroup)
		api.GET("/groups/:id/products", h.Groups.GetGroupProducts)

		api.POST("/scan/decode", h.Scans.Decode)

		api.GET("/status", statusHandler(db, monitor))
	}

	return router
}

func statusHandler(db *repository.Database, monitor *middleware.PerformanceMonitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, uptime, requests := monitor.Snapshot()

		dbStatus := "ok"
		if err := db.Ping(); err != nil {
			dbStatus = "unavailable"
		}

		status := http.StatusOK
		if dbStatus != "ok" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"database":  dbStatus,
			"uptime":    uptime.String(),
			"requests":  requests,
			"endpoints": stats,
		})
	}
}
