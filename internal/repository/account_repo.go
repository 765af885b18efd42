package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/alloc_server/internal/model"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(account *model.SubscriptionAccount) error {
	return r.db.Create(account).Error
}

func (r *AccountRepository) GetByID(id int64) (*model.SubscriptionAccount, error) {
	var account model.SubscriptionAccount
	err := r.db.Where("id = ?", id).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) ExistsByName(name string) (bool, error) {
	var count int64
	err := r.db.Model(&model.SubscriptionAccount{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

func (r *AccountRepository) ListByUser(userID int64) ([]*model.SubscriptionAccount, error) {
	var accounts []*model.SubscriptionAccount
	err := r.db.Where("user_id = ?", userID).Order("name").Find(&accounts).Error
	return accounts, err
}

func (r *AccountRepository) Delete(id int64) error {
	return r.db.Delete(&model.SubscriptionAccount{}, id).Error
}
