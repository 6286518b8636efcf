package repository

import (
	"testing"

	"go-inventory-webapp/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestProductBarcodeUniqueness(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)

	require.NoError(t, repo.Create(&models.Product{Name: "Red Mug", Price: 9.99, Barcode: "REDMUG-001"}))

	err := repo.Create(&models.Product{Name: "Other", Price: 1.50, Barcode: "REDMUG-001"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestBarcodesWithPrefix(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)

	for _, barcode := range []string{"REDMUG-001", "REDMUG-003", "REDMUGXL-001", "BLUEMUG-001"} {
		seedProduct(t, db, "p "+barcode, barcode)
	}

	barcodes, err := repo.BarcodesWithPrefix("REDMUG-")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"REDMUG-001", "REDMUG-003"}, barcodes)
}

func TestProductGetByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)
	memberships := NewMembershipRepository(db)

	product := seedProduct(t, db, "Red Mug", "REDMUG-001")
	group := seedGroup(t, db, "Kitchen")
	require.NoError(t, memberships.Add(product.ProductID, group.GroupID))

	found, err := repo.GetByID(product.ProductID)
	require.NoError(t, err)
	assert.Equal(t, "Red Mug", found.Name)
	require.Len(t, found.Groups, 1)
	assert.Equal(t, group.GroupID, found.Groups[0].GroupID)

	_, err = repo.GetByID(product.ProductID + 99)
	assert.ErrorIs(t, err, models.ErrProductNotFound)
}

func TestProductListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)

	seedProduct(t, db, "Red Mug", "REDMUG-001")
	seedProduct(t, db, "Blue Mug", "BLUEMUG-001")
	seedProduct(t, db, "Plate", "PLATE-001")

	t.Run("exact barcode", func(t *testing.T) {
		products, err := repo.List(&models.FilterParams{Barcode: "PLATE-001"})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Plate", products[0].Name)
	})

	t.Run("search term", func(t *testing.T) {
		products, err := repo.List(&models.FilterParams{SearchTerm: "Mug"})
		require.NoError(t, err)
		assert.Len(t, products, 2)
	})

	t.Run("newest first", func(t *testing.T) {
		products, err := repo.List(&models.FilterParams{})
		require.NoError(t, err)
		require.Len(t, products, 3)
		assert.Equal(t, "Plate", products[0].Name)
	})
}
