package service

import (
	"github.com/qs3c/alloc_server/internal/model"
	"github.com/qs3c/alloc_server/internal/repository"
)

func loadActor(stores *repository.Stores, userID int64) (*model.User, error) {
	user, err := stores.Users.GetByID(userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return user, nil
}

func loadSubscription(stores *repository.Stores, id int64) (*model.Subscription, error) {
	sub, err := stores.Subscriptions.GetDetail(id)
	if err != nil {
		return nil, notFound(err, ErrSubscriptionNotFound)
	}
	return sub, nil
}

// canManage 管理员或项目 PI
func canManage(actor *model.User, project *model.Project) bool {
	if actor.IsStaff {
		return true
	}
	return project != nil && project.PIID == actor.ID
}

// canView 可管理或是订阅成员
func canView(stores *repository.Stores, actor *model.User, sub *model.Subscription) (bool, error) {
	if canManage(actor, sub.Project) {
		return true, nil
	}
	return stores.Subscriptions.IsMember(sub.ID, actor.ID)
}

// authorize 加载操作者与订阅并校验权限
func authorize(stores *repository.Stores, userID, subscriptionID int64, manage bool) (*model.User, *model.Subscription, error) {
	actor, err := loadActor(stores, userID)
	if err != nil {
		return nil, nil, err
	}
	sub, err := loadSubscription(stores, subscriptionID)
	if err != nil {
		return nil, nil, err
	}

	allowed := canManage(actor, sub.Project)
	if !allowed && !manage {
		if allowed, err = canView(stores, actor, sub); err != nil {
			return nil, nil, err
		}
	}
	if !allowed {
		return nil, nil, ErrPermissionDenied
	}
	return actor, sub, nil
}
