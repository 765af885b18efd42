package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/alloc_server/internal/model"
)

// AttributeTypeRepository 订阅属性类型
type AttributeTypeRepository struct {
	db *gorm.DB
}

func NewAttributeTypeRepository(db *gorm.DB) *AttributeTypeRepository {
	return &AttributeTypeRepository{db: db}
}

func (r *AttributeTypeRepository) Create(attrType *model.SubscriptionAttributeType) error {
	return r.db.Omit("AttributeType").Create(attrType).Error
}

func (r *AttributeTypeRepository) GetByID(id int64) (*model.SubscriptionAttributeType, error) {
	var attrType model.SubscriptionAttributeType
	err := r.db.Preload("AttributeType").Where("id = ?", id).First(&attrType).Error
	if err != nil {
		return nil, err
	}
	return &attrType, nil
}

func (r *AttributeTypeRepository) GetByName(name string) (*model.SubscriptionAttributeType, error) {
	var attrType model.SubscriptionAttributeType
	err := r.db.Preload("AttributeType").Where("name = ?", name).First(&attrType).Error
	if err != nil {
		return nil, err
	}
	return &attrType, nil
}

// List 非管理员不返回私有类型
func (r *AttributeTypeRepository) List(includePrivate bool) ([]*model.SubscriptionAttributeType, error) {
	var types []*model.SubscriptionAttributeType
	query := r.db.Preload("AttributeType")
	if !includePrivate {
		query = query.Where("is_private = ?", false)
	}
	err := query.Order("name").Find(&types).Error
	return types, err
}
