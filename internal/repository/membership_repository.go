package repository

import (
	"fmt"
	"log"

	"go-inventory-webapp/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MembershipRepository owns the product_group_membership table and is the
// only writer of product_group.count. Every mutation runs the membership
// rows and the derived count inside one transaction, so the count can never
// drift from the true cardinality between operations.
type MembershipRepository struct {
	db *Database
}

func NewMembershipRepository(db *Database) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// Add inserts the (product, group) pair if it does not exist yet.
// Re-adding an existing pair is a no-op and does not touch the count.
func (r *MembershipRepository) Add(productID, groupID uint) error {
	return r.db.DB.Transaction(func(tx *gorm.DB) error {
		return addMembership(tx, productID, groupID)
	})
}

// Remove deletes the pair if present. Removing an absent pair is a no-op.
func (r *MembershipRepository) Remove(productID, groupID uint) error {
	return r.db.DB.Transaction(func(tx *gorm.DB) error {
		return removeMembership(tx, productID, groupID)
	})
}

// ReplaceForProduct swaps the product's entire membership set in one
// transaction: all current rows go (decrementing their groups), the new set
// comes in (incrementing its groups). Readers never observe the product
// stripped of the old set without the new one.
func (r *MembershipRepository) ReplaceForProduct(productID uint, newGroupIDs []uint) error {
	return r.db.DB.Transaction(func(tx *gorm.DB) error {
		if err := productExists(tx, productID); err != nil {
			return err
		}

		// Every target group must exist before anything is written, so a
		// bad id cannot leave a half-applied replacement behind.
		newGroupIDs = dedupeIDs(newGroupIDs)
		for _, groupID := range newGroupIDs {
			if err := groupExists(tx, groupID); err != nil {
				return err
			}
		}

		current, err := groupIDsForProduct(tx, productID)
		if err != nil {
			return err
		}

		for _, groupID := range current {
			if err := removeMembership(tx, productID, groupID); err != nil {
				return err
			}
		}
		for _, groupID := range newGroupIDs {
			if err := addMembership(tx, productID, groupID); err != nil {
				return err
			}
		}
		return nil
	})
}

// BulkAssign attaches one group to many products. Pairs that already exist
// are silently ignored; the count increment equals exactly the number of
// rows actually created.
func (r *MembershipRepository) BulkAssign(groupID uint, productIDs []uint) error {
	return r.db.DB.Transaction(func(tx *gorm.DB) error {
		if err := groupExists(tx, groupID); err != nil {
			return err
		}

		productIDs = dedupeIDs(productIDs)
		var known int64
		if err := tx.Model(&models.Product{}).Where("id IN ?", productIDs).Count(&known).Error; err != nil {
			return fmt.Errorf("failed to verify products: %w", err)
		}
		if int(known) != len(productIDs) {
			return models.ErrProductNotFound
		}

		inserted := 0
		for _, productID := range productIDs {
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.ProductGroupMembership{ProductID: productID, GroupID: groupID})
			if res.Error != nil {
				return fmt.Errorf("failed to assign product %d to group %d: %w", productID, groupID, res.Error)
			}
			inserted += int(res.RowsAffected)
		}

		if inserted == 0 {
			return nil
		}
		return bumpCount(tx, groupID, inserted)
	})
}

// RemoveAllForProduct drops every membership of the product, decrementing
// each affected group's count. Called before the product row itself goes.
func (r *MembershipRepository) RemoveAllForProduct(productID uint) error {
	return r.db.DB.Transaction(func(tx *gorm.DB) error {
		current, err := groupIDsForProduct(tx, productID)
		if err != nil {
			return err
		}
		for _, groupID := range current {
			if err := removeMembership(tx, productID, groupID); err != nil {
				return err
			}
		}
		return nil
	})
}

// RemoveAllForGroup strips every membership of the group and zeroes its
// count. The group row itself stays; deleting it is the caller's last step.
func (r *MembershipRepository) RemoveAllForGroup(groupID uint) error {
	return r.db.DB.Transaction(func(tx *gorm.DB) error {
		if err := groupExists(tx, groupID); err != nil {
			return err
		}
		if err := tx.Where("product_group_id = ?", groupID).
			Delete(&models.ProductGroupMembership{}).Error; err != nil {
			return fmt.Errorf("failed to remove group memberships: %w", err)
		}
		return tx.Model(&models.ProductGroup{}).
			Where("id = ?", groupID).
			Update("count", 0).Error
	})
}

// ProductsInGroup lists the member products of a group.
func (r *MembershipRepository) ProductsInGroup(groupID uint) ([]models.Product, error) {
	if err := groupExists(r.db.DB, groupID); err != nil {
		return nil, err
	}
	var products []models.Product
	err := r.db.Model(&models.Product{}).
		Joins("JOIN product_group_membership pgm ON pgm.product_id = products.id").
		Where("pgm.product_group_id = ?", groupID).
		Order("products.id DESC").
		Find(&products).Error
	return products, err
}

// GroupsForProduct lists the groups a product belongs to.
func (r *MembershipRepository) GroupsForProduct(productID uint) ([]models.ProductGroup, error) {
	if err := productExists(r.db.DB, productID); err != nil {
		return nil, err
	}
	var groups []models.ProductGroup
	err := r.db.Model(&models.ProductGroup{}).
		Joins("JOIN product_group_membership pgm ON pgm.product_group_id = product_group.id").
		Where("pgm.product_id = ?", productID).
		Order("product_group.id ASC").
		Find(&groups).Error
	return groups, err
}

func addMembership(tx *gorm.DB, productID, groupID uint) error {
	if err := productExists(tx, productID); err != nil {
		return err
	}
	if err := groupExists(tx, groupID); err != nil {
		return err
	}

	res := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ProductGroupMembership{ProductID: productID, GroupID: groupID})
	if res.Error != nil {
		return fmt.Errorf("failed to add membership: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Pair already present.
		return nil
	}
	return bumpCount(tx, groupID, 1)
}

func removeMembership(tx *gorm.DB, productID, groupID uint) error {
	res := tx.Where("product_id = ? AND product_group_id = ?", productID, groupID).
		Delete(&models.ProductGroupMembership{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove membership: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil
	}
	return bumpCount(tx, groupID, -1)
}

// bumpCount adjusts a group's denormalized count. Decrements are floored at
// zero: a count that would go negative has already drifted, so it is logged
// as a defect and left at zero rather than corrupted further.
func bumpCount(tx *gorm.DB, groupID uint, delta int) error {
	query := tx.Model(&models.ProductGroup{}).Where("id = ?", groupID)
	if delta < 0 {
		query = query.Where("count >= ?", -delta)
	}
	res := query.Update("count", gorm.Expr("count + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("failed to update group count: %w", res.Error)
	}
	if res.RowsAffected == 0 && delta < 0 {
		violation := &models.InvariantError{
			Detail: fmt.Sprintf("group %d count would go below zero, flooring at 0", groupID),
		}
		log.Printf("⚠️  %v", violation)
		return tx.Model(&models.ProductGroup{}).
			Where("id = ?", groupID).
			Update("count", 0).Error
	}
	return nil
}

func productExists(tx *gorm.DB, productID uint) error {
	var n int64
	if err := tx.Model(&models.Product{}).Where("id = ?", productID).Count(&n).Error; err != nil {
		return fmt.Errorf("failed to check product %d: %w", productID, err)
	}
	if n == 0 {
		return models.ErrProductNotFound
	}
	return nil
}

func groupExists(tx *gorm.DB, groupID uint) error {
	var n int64
	if err := tx.Model(&models.ProductGroup{}).Where("id = ?", groupID).Count(&n).Error; err != nil {
		return fmt.Errorf("failed to check group %d: %w", groupID, err)
	}
	if n == 0 {
		return models.ErrGroupNotFound
	}
	return nil
}

func groupIDsForProduct(tx *gorm.DB, productID uint) ([]uint, error) {
	var ids []uint
	err := tx.Model(&models.ProductGroupMembership{}).
		Where("product_id = ?", productID).
		Pluck("product_group_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load memberships for product %d: %w", productID, err)
	}
	return ids, nil
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
