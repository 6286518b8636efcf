package services

import (
	"errors"
	"fmt"
	"log"

	"go-inventory-webapp/internal/models"
	"go-inventory-webapp/internal/repository"

	"gorm.io/gorm"
)

// maxAllocationAttempts bounds the retry loop around the allocator's suffix
// race. Two concurrent creates for the same family can compute the same
// suffix; the losing insert recomputes and tries again.
const maxAllocationAttempts = 5

// ImageStore is the slice of the image collaborator the lifecycle needs:
// the ability to release a stored file once its owning product is gone.
type ImageStore interface {
	Remove(ref string) error
}

// ProductService coordinates the barcode allocator and the membership
// repository around the mutating product and group operations, so the
// product table, the membership table and the group counts stay consistent.
type ProductService struct {
	products    *repository.ProductRepository
	groups      *repository.GroupRepository
	memberships *repository.MembershipRepository
	allocator   *BarcodeAllocator
	images      ImageStore
}

func NewProductService(
	products *repository.ProductRepository,
	groups *repository.GroupRepository,
	memberships *repository.MembershipRepository,
	allocator *BarcodeAllocator,
	images ImageStore,
) *ProductService {
	return &ProductService{
		products:    products,
		groups:      groups,
		memberships: memberships,
		allocator:   allocator,
		images:      images,
	}
}

// CreateProduct persists a new product and attaches it to the requested
// groups. A missing barcode is allocated; a supplied one is used verbatim
// and a duplicate is a conflict with no retry.
//
// The product row is committed before memberships are attached. If the
// attachment fails the product survives ungrouped, which is a valid terminal
// state, and the product is returned alongside the error so the caller can
// report both.
func (s *ProductService) CreateProduct(req *models.CreateProductRequest) (*models.Product, error) {
	product := &models.Product{
		Name:  req.Name,
		Price: req.Price,
	}
	if req.ImageURL != "" {
		imageURL := req.ImageURL
		product.ImageURL = &imageURL
	}

	if req.Barcode != "" {
		product.Barcode = req.Barcode
		if err := s.products.Create(product); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, models.ErrBarcodeConflict
			}
			return nil, s.storageErr("create product", err)
		}
	} else if err := s.createWithAllocatedBarcode(product); err != nil {
		return nil, err
	}

	if len(req.GroupIDs) > 0 {
		if err := s.memberships.ReplaceForProduct(product.ProductID, req.GroupIDs); err != nil {
			return product, s.storageErr("attach groups", err)
		}
	}

	return s.products.GetByID(product.ProductID)
}

func (s *ProductService) createWithAllocatedBarcode(product *models.Product) error {
	var lastErr error
	for attempt := 1; attempt <= maxAllocationAttempts; attempt++ {
		barcode, err := s.allocator.Allocate(product.Name)
		if err != nil {
			return s.storageErr("allocate barcode", err)
		}
		product.Barcode = barcode

		err = s.products.Create(product)
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.storageErr("create product", err)
		}
		// Lost the suffix race; recompute against the now-larger family.
		lastErr = err
		log.Printf("barcode %s already taken, reallocating (attempt %d/%d)", barcode, attempt, maxAllocationAttempts)
	}
	return fmt.Errorf("%w: allocation retries exhausted: %v", models.ErrBarcodeConflict, lastErr)
}

// UpdateProduct mutates name, price, image and optionally the group set.
// The barcode is never re-derived or changed here.
func (s *ProductService) UpdateProduct(id uint, req *models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.products.GetByID(id)
	if err != nil {
		return nil, s.storageErr("load product", err)
	}

	product.Name = req.Name
	product.Price = req.Price

	var staleImage string
	if req.ImageURL != nil {
		if product.ImageURL != nil && *product.ImageURL != *req.ImageURL {
			staleImage = *product.ImageURL
		}
		if *req.ImageURL == "" {
			product.ImageURL = nil
		} else {
			product.ImageURL = req.ImageURL
		}
	}

	if err := s.products.Update(product); err != nil {
		return nil, s.storageErr("update product", err)
	}

	if groupIDs := resolveGroupIDs(req); groupIDs != nil {
		if err := s.memberships.ReplaceForProduct(id, groupIDs); err != nil {
			return nil, s.storageErr("replace groups", err)
		}
	}

	if staleImage != "" {
		s.removeImage(staleImage)
	}

	return s.products.GetByID(id)
}

// AttachImage records a freshly stored image reference on the product,
// releasing the previous file if one existed.
func (s *ProductService) AttachImage(id uint, ref string) (*models.Product, error) {
	product, err := s.products.GetByID(id)
	if err != nil {
		return nil, s.storageErr("load product", err)
	}

	var staleImage string
	if product.ImageURL != nil && *product.ImageURL != ref {
		staleImage = *product.ImageURL
	}
	product.ImageURL = &ref

	if err := s.products.Update(product); err != nil {
		return nil, s.storageErr("update product image", err)
	}
	if staleImage != "" {
		s.removeImage(staleImage)
	}
	return product, nil
}

// DeleteProduct retires a product: memberships first (keeping group counts
// accurate), then the row, then the owned image file. Membership cleanup
// precedes the row delete so a crash in between leaves the product
// ungrouped rather than leaving dangling membership rows.
func (s *ProductService) DeleteProduct(id uint) error {
	product, err := s.products.GetByID(id)
	if err != nil {
		return s.storageErr("load product", err)
	}

	if err := s.memberships.RemoveAllForProduct(id); err != nil {
		return s.storageErr("detach groups", err)
	}
	if err := s.products.Delete(id); err != nil {
		return s.storageErr("delete product", err)
	}

	if product.ImageURL != nil {
		s.removeImage(*product.ImageURL)
	}
	return nil
}

// DeleteGroup strips the group's memberships and then removes the group row.
// Member products are never cascaded; they simply lose one group.
func (s *ProductService) DeleteGroup(id uint) error {
	if _, err := s.groups.GetByID(id); err != nil {
		return s.storageErr("load group", err)
	}
	if err := s.memberships.RemoveAllForGroup(id); err != nil {
		return s.storageErr("detach members", err)
	}
	if err := s.groups.Delete(id); err != nil {
		return s.storageErr("delete group", err)
	}
	return nil
}

// BulkAssignGroup attaches one group to many products in a single unit of
// work; duplicate pairs are ignored without inflating the count.
func (s *ProductService) BulkAssignGroup(groupID uint, productIDs []uint) (*models.ProductGroup, error) {
	if err := s.memberships.BulkAssign(groupID, productIDs); err != nil {
		return nil, s.storageErr("bulk assign", err)
	}
	return s.groups.GetByID(groupID)
}

func (s *ProductService) removeImage(ref string) {
	if s.images == nil {
		return
	}
	if err := s.images.Remove(ref); err != nil {
		log.Printf("Warning: failed to remove image %s: %v", ref, err)
	}
}

// storageErr keeps the error taxonomy intact: sentinel errors pass through
// untouched, connectivity failures become ErrStorageUnavailable, everything
// else is wrapped with the failing operation.
func (s *ProductService) storageErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, models.ErrProductNotFound),
		errors.Is(err, models.ErrGroupNotFound),
		errors.Is(err, models.ErrBarcodeConflict):
		return err
	case repository.IsUnavailable(err):
		return fmt.Errorf("%w: %s: %v", models.ErrStorageUnavailable, op, err)
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}

func resolveGroupIDs(req *models.UpdateProductRequest) []uint {
	if req.GroupIDs != nil {
		return *req.GroupIDs
	}
	if req.GroupID != nil {
		// Single-group clients send group_id; treated as a one-element set.
		return []uint{*req.GroupID}
	}
	return nil
}
