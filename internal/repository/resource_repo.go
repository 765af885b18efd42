package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/alloc_server/internal/model"
)

type ResourceRepository struct {
	db *gorm.DB
}

func NewResourceRepository(db *gorm.DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

func (r *ResourceRepository) Create(resource *model.Resource) error {
	return r.db.Create(resource).Error
}

func (r *ResourceRepository) GetByName(name string) (*model.Resource, error) {
	var resource model.Resource
	err := r.db.Where("name = ?", name).First(&resource).Error
	if err != nil {
		return nil, err
	}
	return &resource, nil
}

// GetByIDs 批量获取资源，结果按名称排序
func (r *ResourceRepository) GetByIDs(ids []int64) ([]*model.Resource, error) {
	var resources []*model.Resource
	if len(ids) == 0 {
		return resources, nil
	}
	err := r.db.Where("id IN ?", ids).Order("name").Find(&resources).Error
	return resources, err
}
