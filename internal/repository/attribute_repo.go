package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qs3c/alloc_server/internal/model"
)

// AttributeRepository 订阅属性及其用量
type AttributeRepository struct {
	db *gorm.DB
}

func NewAttributeRepository(db *gorm.DB) *AttributeRepository {
	return &AttributeRepository{db: db}
}

func (r *AttributeRepository) Create(attr *model.SubscriptionAttribute) error {
	return r.db.Omit(clause.Associations).Create(attr).Error
}

func (r *AttributeRepository) GetByID(id int64) (*model.SubscriptionAttribute, error) {
	var attr model.SubscriptionAttribute
	err := r.db.
		Preload("Type.AttributeType").
		Preload("Usage").
		Where("id = ?", id).
		First(&attr).Error
	if err != nil {
		return nil, err
	}
	return &attr, nil
}

func (r *AttributeRepository) Update(attr *model.SubscriptionAttribute) error {
	return r.db.Omit(clause.Associations).Save(attr).Error
}

func (r *AttributeRepository) Delete(id int64) error {
	return r.db.Delete(&model.SubscriptionAttribute{}, id).Error
}

// ListBySubscription 按创建顺序返回订阅的全部属性
func (r *AttributeRepository) ListBySubscription(subscriptionID int64) ([]*model.SubscriptionAttribute, error) {
	var attrs []*model.SubscriptionAttribute
	err := r.db.
		Preload("Type.AttributeType").
		Preload("Usage").
		Where("subscription_id = ?", subscriptionID).
		Order("id").
		Find(&attrs).Error
	return attrs, err
}

// ListBySubscriptionAndTypeName 指定类型名称的属性
func (r *AttributeRepository) ListBySubscriptionAndTypeName(subscriptionID int64, typeName string) ([]*model.SubscriptionAttribute, error) {
	var attrs []*model.SubscriptionAttribute
	err := r.db.
		Preload("Type.AttributeType").
		Preload("Usage").
		Joins("JOIN subscription_attribute_types sat ON sat.id = subscription_attributes.subscription_attribute_type_id").
		Where("subscription_attributes.subscription_id = ? AND sat.name = ?", subscriptionID, typeName).
		Order("subscription_attributes.id").
		Find(&attrs).Error
	return attrs, err
}

// CountOfType 同一订阅上同类型属性数量，excludeID 大于 0 时排除该记录
func (r *AttributeRepository) CountOfType(subscriptionID, typeID, excludeID int64) (int64, error) {
	var count int64
	query := r.db.Model(&model.SubscriptionAttribute{}).
		Where("subscription_id = ? AND subscription_attribute_type_id = ?", subscriptionID, typeID)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count, err
}

// IDsBySubscription 订阅下全部属性 ID
func (r *AttributeRepository) IDsBySubscription(subscriptionID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&model.SubscriptionAttribute{}).
		Where("subscription_id = ?", subscriptionID).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *AttributeRepository) DeleteBySubscription(subscriptionID int64) error {
	return r.db.Where("subscription_id = ?", subscriptionID).Delete(&model.SubscriptionAttribute{}).Error
}

// CreateUsage 创建用量记录，已存在时不做修改
func (r *AttributeRepository) CreateUsage(usage *model.SubscriptionAttributeUsage) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(usage).Error
}

func (r *AttributeRepository) GetUsage(attributeID int64) (*model.SubscriptionAttributeUsage, error) {
	var usage model.SubscriptionAttributeUsage
	err := r.db.Where("subscription_attribute_id = ?", attributeID).First(&usage).Error
	if err != nil {
		return nil, err
	}
	return &usage, nil
}

func (r *AttributeRepository) SaveUsage(usage *model.SubscriptionAttributeUsage) error {
	return r.db.Save(usage).Error
}

func (r *AttributeRepository) DeleteUsage(attributeID int64) error {
	return r.db.Where("subscription_attribute_id = ?", attributeID).Delete(&model.SubscriptionAttributeUsage{}).Error
}

// DeleteUsages 批量删除用量
func (r *AttributeRepository) DeleteUsages(attributeIDs []int64) error {
	if len(attributeIDs) == 0 {
		return nil
	}
	return r.db.Where("subscription_attribute_id IN ?", attributeIDs).Delete(&model.SubscriptionAttributeUsage{}).Error
}
