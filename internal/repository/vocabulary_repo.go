package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/alloc_server/internal/model"
)

// VocabularyRepository 状态、值类型等词表
type VocabularyRepository struct {
	db *gorm.DB
}

func NewVocabularyRepository(db *gorm.DB) *VocabularyRepository {
	return &VocabularyRepository{db: db}
}

func (r *VocabularyRepository) GetStatusByName(name string) (*model.SubscriptionStatusChoice, error) {
	var status model.SubscriptionStatusChoice
	err := r.db.Where("name = ?", name).First(&status).Error
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *VocabularyRepository) GetStatusByID(id int64) (*model.SubscriptionStatusChoice, error) {
	var status model.SubscriptionStatusChoice
	err := r.db.Where("id = ?", id).First(&status).Error
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *VocabularyRepository) ListStatuses() ([]*model.SubscriptionStatusChoice, error) {
	var statuses []*model.SubscriptionStatusChoice
	err := r.db.Order("name").Find(&statuses).Error
	return statuses, err
}

// EnsureStatus 不存在时创建，返回是否新建
func (r *VocabularyRepository) EnsureStatus(name string) (bool, error) {
	return ensureByName(r.db, &model.SubscriptionStatusChoice{Name: name}, name)
}

func (r *VocabularyRepository) GetUserStatusByName(name string) (*model.SubscriptionUserStatusChoice, error) {
	var status model.SubscriptionUserStatusChoice
	err := r.db.Where("name = ?", name).First(&status).Error
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *VocabularyRepository) EnsureUserStatus(name string) (bool, error) {
	return ensureByName(r.db, &model.SubscriptionUserStatusChoice{Name: name}, name)
}

func (r *VocabularyRepository) GetAttributeKindByName(name string) (*model.AttributeType, error) {
	var kind model.AttributeType
	err := r.db.Where("name = ?", name).First(&kind).Error
	if err != nil {
		return nil, err
	}
	return &kind, nil
}

func (r *VocabularyRepository) EnsureAttributeKind(name string) (bool, error) {
	return ensureByName(r.db, &model.AttributeType{Name: name}, name)
}

// ensureByName 按 name 查找，不存在时创建 row
func ensureByName(db *gorm.DB, row interface{}, name string) (bool, error) {
	var count int64
	if err := db.Model(row).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if err := db.Create(row).Error; err != nil {
		return false, err
	}
	return true, nil
}
