package service

import (
	"github.com/qs3c/alloc_server/internal/model"
	"github.com/qs3c/alloc_server/internal/model/dto"
	"github.com/qs3c/alloc_server/internal/repository"
)

type AccountService struct {
	stores *repository.Stores
}

func NewAccountService(stores *repository.Stores) *AccountService {
	return &AccountService{stores: stores}
}

func toAccountItem(a *model.SubscriptionAccount) *dto.AccountItem {
	return &dto.AccountItem{
		ID:        a.ID,
		Name:      a.Name,
		CreatedAt: formatTime(a.CreatedAt),
	}
}

// Create 账号名全局唯一
func (s *AccountService) Create(userID int64, req *dto.CreateAccountRequest) (*dto.AccountItem, error) {
	if _, err := loadActor(s.stores, userID); err != nil {
		return nil, err
	}

	exists, err := s.stores.Accounts.ExistsByName(req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAccountExists
	}

	account := &model.SubscriptionAccount{UserID: userID, Name: req.Name}
	if err := s.stores.Accounts.Create(account); err != nil {
		return nil, err
	}
	return toAccountItem(account), nil
}

func (s *AccountService) ListByUser(userID int64) ([]*dto.AccountItem, error) {
	accounts, err := s.stores.Accounts.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.AccountItem, 0, len(accounts))
	for _, a := range accounts {
		items = append(items, toAccountItem(a))
	}
	return items, nil
}

// Delete 只有账号所有者或管理员可以删除
func (s *AccountService) Delete(userID, accountID int64) error {
	actor, err := loadActor(s.stores, userID)
	if err != nil {
		return err
	}
	account, err := s.stores.Accounts.GetByID(accountID)
	if err != nil {
		return notFound(err, ErrAccountNotFound)
	}
	if account.UserID != actor.ID && !actor.IsStaff {
		return ErrPermissionDenied
	}
	return s.stores.Accounts.Delete(account.ID)
}
