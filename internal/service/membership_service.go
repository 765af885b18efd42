package service

import (
	"go.uber.org/zap"

	"github.com/qs3c/alloc_server/internal/model"
	"github.com/qs3c/alloc_server/internal/model/dto"
	"github.com/qs3c/alloc_server/internal/repository"
)

type MembershipService struct {
	stores *repository.Stores
	logger *zap.Logger
}

func NewMembershipService(stores *repository.Stores, logger *zap.Logger) *MembershipService {
	return &MembershipService{stores: stores, logger: logger}
}

func (s *MembershipService) userStatus(name string) (*model.SubscriptionUserStatusChoice, error) {
	status, err := s.stores.Vocabulary.GetUserStatusByName(name)
	if err != nil {
		return nil, notFound(err, ErrUserStatusNotFound)
	}
	return status, nil
}

// AddUser 添加成员，默认状态 Active
func (s *MembershipService) AddUser(actorID, subscriptionID int64, req *dto.AddMemberRequest) (*dto.MemberItem, error) {
	if _, _, err := authorize(s.stores, actorID, subscriptionID, true); err != nil {
		return nil, err
	}

	user, err := s.stores.Users.GetByID(req.UserID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	exists, err := s.stores.Members.Exists(subscriptionID, user.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrMemberExists
	}

	statusName := req.Status
	if statusName == "" {
		statusName = model.UserStatusActive
	}
	status, err := s.userStatus(statusName)
	if err != nil {
		return nil, err
	}

	member := &model.SubscriptionUser{
		SubscriptionID: subscriptionID,
		UserID:         user.ID,
		StatusID:       status.ID,
		User:           user,
		Status:         status,
	}
	err = s.stores.Transaction(func(tx *repository.Stores) error {
		if err := tx.Members.Create(member); err != nil {
			return err
		}
		return tx.History.Record(repository.HistorySubscriptionUser, member.ID, model.HistoryCreated, &actorID, member)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("subscription user added",
		zap.Int64("subscription_id", subscriptionID),
		zap.Int64("user_id", user.ID),
	)
	return toMemberItem(member), nil
}

// UpdateUserStatus 修改成员状态
func (s *MembershipService) UpdateUserStatus(actorID, subscriptionID, userID int64, req *dto.UpdateMemberRequest) (*dto.MemberItem, error) {
	if _, _, err := authorize(s.stores, actorID, subscriptionID, true); err != nil {
		return nil, err
	}
	status, err := s.userStatus(req.Status)
	if err != nil {
		return nil, err
	}
	return s.setStatus(actorID, subscriptionID, userID, status)
}

// RemoveUser 成员置为 Removed，保留记录
func (s *MembershipService) RemoveUser(actorID, subscriptionID, userID int64) error {
	if _, _, err := authorize(s.stores, actorID, subscriptionID, true); err != nil {
		return err
	}
	status, err := s.userStatus(model.UserStatusRemoved)
	if err != nil {
		return err
	}
	_, err = s.setStatus(actorID, subscriptionID, userID, status)
	return err
}

func (s *MembershipService) setStatus(actorID, subscriptionID, userID int64, status *model.SubscriptionUserStatusChoice) (*dto.MemberItem, error) {
	member, err := s.stores.Members.Get(subscriptionID, userID)
	if err != nil {
		return nil, notFound(err, ErrMemberNotFound)
	}
	if member.StatusID == status.ID {
		return toMemberItem(member), nil
	}

	member.StatusID = status.ID
	member.Status = status
	err = s.stores.Transaction(func(tx *repository.Stores) error {
		if err := tx.Members.Update(member); err != nil {
			return err
		}
		return tx.History.Record(repository.HistorySubscriptionUser, member.ID, model.HistoryChanged, &actorID, member)
	})
	if err != nil {
		return nil, err
	}
	return toMemberItem(member), nil
}

// ListUsers 订阅成员列表
func (s *MembershipService) ListUsers(actorID, subscriptionID int64) ([]*dto.MemberItem, error) {
	if _, _, err := authorize(s.stores, actorID, subscriptionID, false); err != nil {
		return nil, err
	}

	members, err := s.stores.Members.ListBySubscription(subscriptionID)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.MemberItem, 0, len(members))
	for _, m := range members {
		items = append(items, toMemberItem(m))
	}
	return items, nil
}
