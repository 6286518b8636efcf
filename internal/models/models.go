package models

import (
	"time"
)

type Product struct {
	ProductID uint      `json:"id" gorm:"primaryKey;column:id"`
	Name      string    `json:"name" gorm:"not null;column:name"`
	Price     float64   `json:"price" gorm:"not null;column:price"`
	Barcode   string    `json:"barcode" gorm:"not null;uniqueIndex:uniq_products_barcode;column:barcode"`
	ImageURL  *string   `json:"image_url" gorm:"column:image_url"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`

	// Loaded through the membership table, never written by GORM directly.
	Groups []ProductGroup `json:"groups,omitempty" gorm:"-"`
}

func (Product) TableName() string {
	return "products"
}

// ProductGroup carries a denormalized member count. The count column is
// written exclusively by the membership repository, inside the same
// transaction as the membership change it derives from.
type ProductGroup struct {
	GroupID uint   `json:"id" gorm:"primaryKey;column:id"`
	Name    string `json:"name" gorm:"not null;column:name"`
	Count   int    `json:"count" gorm:"not null;default:0;column:count"`
}

func (ProductGroup) TableName() string {
	return "product_group"
}

type ProductGroupMembership struct {
	MembershipID uint `json:"-" gorm:"primaryKey;column:id"`
	ProductID    uint `json:"product_id" gorm:"not null;column:product_id;uniqueIndex:uniq_membership_pair"`
	GroupID      uint `json:"product_group_id" gorm:"not null;column:product_group_id;uniqueIndex:uniq_membership_pair"`
}

func (ProductGroupMembership) TableName() string {
	return "product_group_membership"
}

type CreateProductRequest struct {
	Name     string  `json:"name" binding:"required"`
	Price    float64 `json:"price" binding:"required,gt=0"`
	Barcode  string  `json:"barcode"`
	ImageURL string  `json:"image_url"`
	GroupIDs []uint  `json:"group_ids"`
}

// UpdateProductRequest never carries a barcode: a product's barcode is
// immutable once assigned. GroupIDs nil means "leave memberships alone",
// an empty slice means "remove from all groups". GroupID is kept for older
// single-group clients and is treated as a one-element GroupIDs.
type UpdateProductRequest struct {
	Name     string  `json:"name" binding:"required"`
	Price    float64 `json:"price" binding:"required,gt=0"`
	ImageURL *string `json:"image_url"`
	GroupIDs *[]uint `json:"group_ids"`
	GroupID  *uint   `json:"group_id"`
}

type CreateGroupRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateGroupRequest struct {
	Name string `json:"name" binding:"required"`
}

type BulkAssignRequest struct {
	GroupID    uint   `json:"group_id" binding:"required"`
	ProductIDs []uint `json:"product_ids" binding:"required"`
}

type FilterParams struct {
	SearchTerm string `form:"search"`
	Barcode    string `form:"barcode"`
	Limit      int    `form:"limit"`
	Offset     int    `form:"offset"`
}
