package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qs3c/alloc_server/internal/model"
)

// MembershipRepository 订阅成员
type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) Create(member *model.SubscriptionUser) error {
	return r.db.Omit(clause.Associations).Create(member).Error
}

func (r *MembershipRepository) Get(subscriptionID, userID int64) (*model.SubscriptionUser, error) {
	var member model.SubscriptionUser
	err := r.db.
		Preload("User").
		Preload("Status").
		Where("subscription_id = ? AND user_id = ?", subscriptionID, userID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *MembershipRepository) Exists(subscriptionID, userID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.SubscriptionUser{}).
		Where("subscription_id = ? AND user_id = ?", subscriptionID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *MembershipRepository) Update(member *model.SubscriptionUser) error {
	return r.db.Omit(clause.Associations).Save(member).Error
}

func (r *MembershipRepository) Delete(id int64) error {
	return r.db.Delete(&model.SubscriptionUser{}, id).Error
}

// ListBySubscription 按加入顺序列出成员
func (r *MembershipRepository) ListBySubscription(subscriptionID int64) ([]*model.SubscriptionUser, error) {
	var members []*model.SubscriptionUser
	err := r.db.
		Preload("User").
		Preload("Status").
		Where("subscription_id = ?", subscriptionID).
		Order("id").
		Find(&members).Error
	return members, err
}

func (r *MembershipRepository) DeleteBySubscription(subscriptionID int64) error {
	return r.db.Where("subscription_id = ?", subscriptionID).Delete(&model.SubscriptionUser{}).Error
}
