package repository

import (
	"errors"

	"go-inventory-webapp/internal/models"

	"gorm.io/gorm"
)

type GroupRepository struct {
	db *Database
}

func NewGroupRepository(db *Database) *GroupRepository {
	return &GroupRepository{db: db}
}

// Create persists a new group. Groups always start empty.
func (r *GroupRepository) Create(group *models.ProductGroup) error {
	group.Count = 0
	return r.db.Create(group).Error
}

func (r *GroupRepository) GetByID(id uint) (*models.ProductGroup, error) {
	var group models.ProductGroup
	err := r.db.First(&group, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (r *GroupRepository) List() ([]models.ProductGroup, error) {
	var groups []models.ProductGroup
	err := r.db.Order("id DESC").Find(&groups).Error
	return groups, err
}

// Rename updates the group name only. The count column belongs to the
// membership repository.
func (r *GroupRepository) Rename(id uint, name string) (*models.ProductGroup, error) {
	group, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := r.db.Model(group).Update("name", name).Error; err != nil {
		return nil, err
	}
	group.Name = name
	return group, nil
}

func (r *GroupRepository) Delete(id uint) error {
	return r.db.Delete(&models.ProductGroup{}, id).Error
}
