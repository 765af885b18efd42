package hook

import (
	"context"
	"errors"
	"fmt"

	"github.com/qs3c/alloc_server/internal/model"
	"github.com/qs3c/alloc_server/internal/pkg/email"
	"github.com/qs3c/alloc_server/internal/pkg/pubsub"
	"github.com/qs3c/alloc_server/internal/repository"
)

// 内置回调名称
const (
	NamePublishExpired = "publish_expired"
	NameNotifyPI       = "notify_pi"
	NameRemoveUsers    = "remove_users"
)

type Publisher interface {
	Publish(ctx context.Context, event *pubsub.SubscriptionEvent) error
}

type Mailer interface {
	SendSubscriptionExpired(to string, notice email.ExpiryNotice) error
}

// RegisterBuiltins 注册内置回调，依赖为 nil 的回调不注册
func RegisterBuiltins(r *Registry, publisher Publisher, mailer Mailer) error {
	if publisher != nil {
		if err := r.Register(NamePublishExpired, PublishExpired(publisher)); err != nil {
			return err
		}
	}
	if mailer != nil {
		if err := r.Register(NameNotifyPI, NotifyPI(mailer)); err != nil {
			return err
		}
	}
	return r.Register(NameRemoveUsers, RemoveUsers())
}

// PublishExpired 发布过期事件
func PublishExpired(publisher Publisher) Func {
	return func(ctx context.Context, stores *repository.Stores, subscriptionID int64) error {
		sub, err := stores.Subscriptions.GetByID(subscriptionID)
		if err != nil {
			return err
		}
		return publisher.Publish(ctx, &pubsub.SubscriptionEvent{
			Type:           pubsub.EventExpired,
			SubscriptionID: sub.ID,
			ProjectID:      sub.ProjectID,
			PreviousStatus: sub.StatusName(),
			Status:         model.StatusExpired,
		})
	}
}

// NotifyPI 邮件通知项目 PI，PI 没有邮箱时跳过
func NotifyPI(mailer Mailer) Func {
	return func(ctx context.Context, stores *repository.Stores, subscriptionID int64) error {
		sub, err := stores.Subscriptions.GetDetail(subscriptionID)
		if err != nil {
			return err
		}
		if sub.Project == nil || sub.Project.PI == nil {
			return errors.New("subscription has no project PI")
		}

		pi := sub.Project.PI
		if pi.Email == nil || *pi.Email == "" {
			return nil
		}

		return mailer.SendSubscriptionExpired(*pi.Email, email.ExpiryNotice{
			PIName:         pi.FullName(),
			ProjectTitle:   sub.Project.Title,
			SubscriptionID: sub.ID,
			Resources:      sub.ResourcesAsString(),
			EndDate:        model.FormatDate(sub.EndDate),
		})
	}
}

// RemoveUsers 将订阅下所有成员置为 Removed
func RemoveUsers() Func {
	return func(ctx context.Context, stores *repository.Stores, subscriptionID int64) error {
		removed, err := stores.Vocabulary.GetUserStatusByName(model.UserStatusRemoved)
		if err != nil {
			return fmt.Errorf("load %q status: %w", model.UserStatusRemoved, err)
		}

		members, err := stores.Members.ListBySubscription(subscriptionID)
		if err != nil {
			return err
		}
		for _, m := range members {
			if m.StatusID == removed.ID {
				continue
			}
			m.StatusID = removed.ID
			m.Status = removed
			if err := stores.Members.Update(m); err != nil {
				return err
			}
			if err := stores.History.Record(repository.HistorySubscriptionUser, m.ID, model.HistoryChanged, nil, m); err != nil {
				return err
			}
		}
		return nil
	}
}
