package main

import (
	"fmt"
	"log"
	"os"

	"go-inventory-webapp/internal/config"
	"go-inventory-webapp/internal/handlers"
	"go-inventory-webapp/internal/logger"
	"go-inventory-webapp/internal/repository"
	"go-inventory-webapp/internal/routes"
	"go-inventory-webapp/internal/services"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "inventory-server",
		Short: "Inventory backend with barcode allocation and product groups",
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.json", "path to config file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations()
		},
	}

	rootCmd.AddCommand(serveCmd, migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer() error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	appLogger, err := logger.NewStructuredLogger(logger.LoggerConfig{
		Level:      logger.ParseLevel(cfg.Logging.Level),
		Service:    "inventory-server",
		OutputPath: cfg.Logging.File,
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := repository.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	productRepo := repository.NewProductRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)

	imageStore, err := services.NewLocalImageStore(cfg.Uploads.Dir, cfg.Uploads.URLBase, cfg.Uploads.MaxWidth)
	if err != nil {
		return fmt.Errorf("failed to set up image store: %w", err)
	}

	allocator := services.NewBarcodeAllocator(productRepo)
	productService := services.NewProductService(productRepo, groupRepo, membershipRepo, allocator, imageStore)
	barcodeService := services.NewBarcodeService()

	router := routes.Setup(db, routes.Handlers{
		Products: handlers.NewProductHandler(productRepo, productService, imageStore),
		Groups:   handlers.NewGroupHandler(groupRepo, membershipRepo, productService),
		Barcodes: handlers.NewBarcodeHandler(productRepo, barcodeService),
		Scans:    handlers.NewScanHandler(productRepo),
	}, appLogger, cfg.Uploads.Dir)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Starting server", map[string]interface{}{"addr": addr})
	return router.Run(addr)
}

func runMigrations() error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := repository.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Println("Database schema is up to date")
	return nil
}
