package repository

import (
	"errors"

	"go-inventory-webapp/internal/models"

	"gorm.io/gorm"
)

type ProductRepository struct {
	db *Database
}

func NewProductRepository(db *Database) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetDB returns the database connection for direct queries
func (r *ProductRepository) GetDB() *Database {
	return r.db
}

func (r *ProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

func (r *ProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrProductNotFound
		}
		return nil, err
	}

	groups, err := r.groupsFor(id)
	if err != nil {
		return nil, err
	}
	product.Groups = groups

	return &product, nil
}

func (r *ProductRepository) GetByBarcode(barcode string) (*models.Product, error) {
	var product models.Product
	err := r.db.Where("barcode = ?", barcode).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

func (r *ProductRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}

func (r *ProductRepository) List(params *models.FilterParams) ([]models.Product, error) {
	var products []models.Product

	query := r.db.Model(&models.Product{})

	if params.Barcode != "" {
		query = query.Where("barcode = ?", params.Barcode)
	}
	if params.SearchTerm != "" {
		searchPattern := "%" + params.SearchTerm + "%"
		query = query.Where("name LIKE ? OR barcode LIKE ?", searchPattern, searchPattern)
	}

	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	}
	if params.Offset > 0 {
		query = query.Offset(params.Offset)
	}

	query = query.Order("id DESC")

	err := query.Find(&products).Error
	return products, err
}

// BarcodesWithPrefix returns every barcode starting with the given prefix.
// The barcode allocator scans these to find the highest suffix in a family.
func (r *ProductRepository) BarcodesWithPrefix(prefix string) ([]string, error) {
	var barcodes []string
	err := r.db.Model(&models.Product{}).
		Where("barcode LIKE ?", escapeLike(prefix)+"%").
		Pluck("barcode", &barcodes).Error
	return barcodes, err
}

func (r *ProductRepository) groupsFor(productID uint) ([]models.ProductGroup, error) {
	var groups []models.ProductGroup
	err := r.db.Model(&models.ProductGroup{}).
		Joins("JOIN product_group_membership pgm ON pgm.product_group_id = product_group.id").
		Where("pgm.product_id = ?", productID).
		Order("product_group.id ASC").
		Find(&groups).Error
	return groups, err
}

// escapeLike escapes LIKE wildcards so a prefix containing % or _ matches
// literally.
func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
