package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/qs3c/alloc_server/config"
	"github.com/qs3c/alloc_server/internal/hook"
	"github.com/qs3c/alloc_server/internal/model"
	"github.com/qs3c/alloc_server/internal/model/dto"
	"github.com/qs3c/alloc_server/internal/pkg/metrics"
	"github.com/qs3c/alloc_server/internal/repository"
)

type SubscriptionService struct {
	stores     *repository.Stores
	dispatcher *hook.Dispatcher
	cfg        config.SubscriptionConfig
	logger     *zap.Logger
	now        func() time.Time
}

func NewSubscriptionService(
	stores *repository.Stores,
	dispatcher *hook.Dispatcher,
	cfg *config.Config,
	logger *zap.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		stores:     stores,
		dispatcher: dispatcher,
		cfg:        cfg.Subscription,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *SubscriptionService) status(name string) (*model.SubscriptionStatusChoice, error) {
	status, err := s.stores.Vocabulary.GetStatusByName(name)
	if err != nil {
		return nil, notFound(err, ErrStatusNotFound)
	}
	return status, nil
}

func (s *SubscriptionService) resources(ids []int64) ([]*model.Resource, error) {
	resources, err := s.stores.Resources.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	unique := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	if len(resources) != len(unique) {
		return nil, ErrResourceNotFound
	}
	return resources, nil
}

func parseDateField(field, value string) (*time.Time, error) {
	d, err := model.ParseDate(value)
	if err != nil {
		return nil, model.NewValidationError(field, "Date must be in format YYYY-MM-DD")
	}
	return d, nil
}

func (s *SubscriptionService) validate(sub *model.Subscription, statusName string) error {
	if err := sub.Validate(statusName, s.now()); err != nil {
		metrics.ValidationFailures.WithLabelValues("subscription").Inc()
		return err
	}
	return nil
}

// Create 创建订阅，仅管理员或项目 PI
func (s *SubscriptionService) Create(userID int64, req *dto.CreateSubscriptionRequest) (*dto.SubscriptionDetail, error) {
	actor, err := loadActor(s.stores, userID)
	if err != nil {
		return nil, err
	}
	project, err := s.stores.Projects.GetByID(req.ProjectID)
	if err != nil {
		return nil, notFound(err, ErrProjectNotFound)
	}
	if !canManage(actor, project) {
		return nil, ErrPermissionDenied
	}

	status, err := s.status(req.Status)
	if err != nil {
		return nil, err
	}
	resources, err := s.resources(req.ResourceIDs)
	if err != nil {
		return nil, err
	}

	sub := &model.Subscription{
		ProjectID:     project.ID,
		StatusID:      status.ID,
		Quantity:      req.Quantity,
		Justification: req.Justification,
		Description:   req.Description,
		Resources:     resources,
		Status:        status,
	}
	if sub.Quantity == 0 {
		sub.Quantity = 1
	}
	if sub.StartDate, err = parseDateField("start_date", req.StartDate); err != nil {
		return nil, err
	}
	if sub.EndDate, err = parseDateField("end_date", req.EndDate); err != nil {
		return nil, err
	}

	if err := s.validate(sub, status.Name); err != nil {
		return nil, err
	}

	err = s.stores.Transaction(func(tx *repository.Stores) error {
		if err := tx.Subscriptions.Create(sub); err != nil {
			return err
		}
		return tx.History.Record(repository.HistorySubscription, sub.ID, model.HistoryCreated, &userID, subscriptionSnapshot(sub))
	})
	if err != nil {
		return nil, err
	}
	metrics.SubscriptionSaves.WithLabelValues("create").Inc()
	s.logger.Info("subscription created",
		zap.Int64("subscription_id", sub.ID),
		zap.Int64("project_id", sub.ProjectID),
		zap.String("status", status.Name),
	)

	return s.Get(userID, sub.ID)
}

// Get 订阅详情，非管理员看不到私有属性
func (s *SubscriptionService) Get(userID, id int64) (*dto.SubscriptionDetail, error) {
	actor, sub, err := authorize(s.stores, userID, id, false)
	if err != nil {
		return nil, err
	}

	attrs := visibleAttributes(sub.Attributes, actor.IsStaff)
	detail := toSubscriptionDetail(sub, s.now())
	detail.Information = s.information(attrs)
	detail.Attributes = make([]*dto.AttributeItem, 0, len(attrs))
	for _, a := range attrs {
		detail.Attributes = append(detail.Attributes, toAttributeItem(a))
	}
	return detail, nil
}

// List 分页列出可见订阅，status 为空时不过滤
func (s *SubscriptionService) List(userID, projectID int64, statusName string, page, pageSize int) ([]*dto.SubscriptionDetail, int64, error) {
	actor, err := loadActor(s.stores, userID)
	if err != nil {
		return nil, 0, err
	}

	filter := repository.SubscriptionFilter{ProjectID: projectID}
	if !actor.IsStaff {
		filter.VisibleTo = actor.ID
	}
	if statusName != "" {
		status, err := s.status(statusName)
		if err != nil {
			return nil, 0, err
		}
		filter.StatusID = status.ID
	}

	subs, total, err := s.stores.Subscriptions.List(filter, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	today := s.now()
	items := make([]*dto.SubscriptionDetail, 0, len(subs))
	for _, sub := range subs {
		items = append(items, toSubscriptionDetail(sub, today))
	}
	return items, total, nil
}

// Update 修改订阅，状态进入 Expired 时触发过期回调
func (s *SubscriptionService) Update(ctx context.Context, userID, id int64, req *dto.UpdateSubscriptionRequest) (*dto.SubscriptionDetail, error) {
	_, sub, err := authorize(s.stores, userID, id, true)
	if err != nil {
		return nil, err
	}

	statusName := sub.StatusName()
	if req.Status != nil {
		status, err := s.status(*req.Status)
		if err != nil {
			return nil, err
		}
		sub.StatusID = status.ID
		sub.Status = status
		statusName = status.Name
	}
	if req.Quantity != nil {
		sub.Quantity = *req.Quantity
	}
	if req.StartDate != nil {
		if sub.StartDate, err = parseDateField("start_date", *req.StartDate); err != nil {
			return nil, err
		}
	}
	if req.EndDate != nil {
		if sub.EndDate, err = parseDateField("end_date", *req.EndDate); err != nil {
			return nil, err
		}
	}
	if req.Justification != nil {
		sub.Justification = *req.Justification
	}
	if req.Description != nil {
		sub.Description = req.Description
		if *req.Description == "" {
			sub.Description = nil
		}
	}

	var resources []*model.Resource
	if req.ResourceIDs != nil {
		if resources, err = s.resources(req.ResourceIDs); err != nil {
			return nil, err
		}
	}

	if err := s.save(ctx, sub, statusName, resources, &userID); err != nil {
		return nil, err
	}
	return s.Get(userID, id)
}

// save 校验后在事务中保存；与已持久化状态相比进入 Expired 时，先执行过期回调再写入
func (s *SubscriptionService) save(ctx context.Context, sub *model.Subscription, statusName string, resources []*model.Resource, actorID *int64) error {
	if err := s.validate(sub, statusName); err != nil {
		return err
	}

	err := s.stores.Transaction(func(tx *repository.Stores) error {
		previous, err := tx.Subscriptions.GetStatusName(sub.ID)
		if err != nil {
			return notFound(err, ErrSubscriptionNotFound)
		}

		if model.IsExpiryTransition(previous, statusName) && s.dispatcher != nil {
			if err := s.dispatcher.OnExpire(ctx, tx, sub.ID); err != nil {
				return err
			}
		}

		if err := tx.Subscriptions.Update(sub); err != nil {
			return err
		}
		if resources != nil {
			if err := tx.Subscriptions.ReplaceResources(sub, resources); err != nil {
				return err
			}
			sub.Resources = resources
		}
		return tx.History.Record(repository.HistorySubscription, sub.ID, model.HistoryChanged, actorID, subscriptionSnapshot(sub))
	})
	if err != nil {
		return err
	}

	metrics.SubscriptionSaves.WithLabelValues("update").Inc()
	return nil
}

// Delete 删除订阅及其属性、用量、备注、成员
func (s *SubscriptionService) Delete(userID, id int64) error {
	_, sub, err := authorize(s.stores, userID, id, true)
	if err != nil {
		return err
	}

	err = s.stores.Transaction(func(tx *repository.Stores) error {
		attrIDs := make([]int64, 0, len(sub.Attributes))
		for _, a := range sub.Attributes {
			attrIDs = append(attrIDs, a.ID)
			if err := tx.History.Record(repository.HistoryAttribute, a.ID, model.HistoryDeleted, &userID, a); err != nil {
				return err
			}
			if a.Usage != nil {
				if err := tx.History.Record(repository.HistoryAttributeUsage, a.ID, model.HistoryDeleted, &userID, a.Usage); err != nil {
					return err
				}
			}
		}
		if err := tx.Attributes.DeleteUsages(attrIDs); err != nil {
			return err
		}
		if err := tx.Attributes.DeleteBySubscription(sub.ID); err != nil {
			return err
		}
		if err := tx.Notes.DeleteBySubscription(sub.ID); err != nil {
			return err
		}

		members, err := tx.Members.ListBySubscription(sub.ID)
		if err != nil {
			return err
		}
		for _, m := range members {
			if err := tx.History.Record(repository.HistorySubscriptionUser, m.ID, model.HistoryDeleted, &userID, m); err != nil {
				return err
			}
		}
		if err := tx.Members.DeleteBySubscription(sub.ID); err != nil {
			return err
		}

		if err := tx.Subscriptions.ClearResources(sub); err != nil {
			return err
		}
		if err := tx.Subscriptions.Delete(sub.ID); err != nil {
			return err
		}
		return tx.History.Record(repository.HistorySubscription, sub.ID, model.HistoryDeleted, &userID, subscriptionSnapshot(sub))
	})
	if err != nil {
		return err
	}

	metrics.SubscriptionSaves.WithLabelValues("delete").Inc()
	s.logger.Info("subscription deleted", zap.Int64("subscription_id", id), zap.Int64("user_id", userID))
	return nil
}

// History 订阅变更历史
func (s *SubscriptionService) History(userID, id int64) ([]*dto.HistoryItem, error) {
	if _, _, err := authorize(s.stores, userID, id, false); err != nil {
		return nil, err
	}

	records, err := s.stores.History.ListByObject(repository.HistorySubscription, id)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.HistoryItem, 0, len(records))
	for _, r := range records {
		items = append(items, toHistoryItem(r))
	}
	return items, nil
}

// Information 订阅的账号与用量摘要
func (s *SubscriptionService) Information(subscriptionID int64) ([]string, error) {
	sub, err := loadSubscription(s.stores, subscriptionID)
	if err != nil {
		return nil, err
	}
	return s.information(sub.Attributes), nil
}

func (s *SubscriptionService) information(attrs []*model.SubscriptionAttribute) []string {
	account := s.cfg.AccountAttribute()
	lines := make([]string, 0)

	for _, a := range attrs {
		name := a.TypeName()
		if name == account {
			lines = append(lines, name+": "+a.Value)
		}
		if a.Usage != nil {
			if _, ok := model.UsagePercent(a.Usage.Value, a.Value); !ok {
				s.logger.Warn("subscription attribute has usage but a non-numeric limit",
					zap.String("attribute_type", name),
					zap.Int64("subscription_id", a.SubscriptionID),
					zap.String("value", a.Value),
				)
			}
			lines = append(lines, model.UsageLine(name, a.Usage.Value, a.Value))
		}
	}
	return lines
}

// GetAttribute 第一个指定类型属性的值，不存在时返回 nil
func (s *SubscriptionService) GetAttribute(subscriptionID int64, name string) (*string, error) {
	values, err := s.GetAttributeList(subscriptionID, name)
	if err != nil || len(values) == 0 {
		return nil, err
	}
	return &values[0], nil
}

// GetAttributeList 指定类型属性的全部值
func (s *SubscriptionService) GetAttributeList(subscriptionID int64, name string) ([]string, error) {
	if _, err := s.stores.Subscriptions.GetByID(subscriptionID); err != nil {
		return nil, notFound(err, ErrSubscriptionNotFound)
	}

	attrs, err := s.stores.Attributes.ListBySubscriptionAndTypeName(subscriptionID, name)
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(attrs))
	for _, a := range attrs {
		values = append(values, a.Value)
	}
	return values, nil
}

// SetUsage 按属性类型名称更新用量
func (s *SubscriptionService) SetUsage(subscriptionID int64, name string, value float64) (err error) {
	defer func() {
		metrics.UsageUpdates.WithLabelValues(metrics.Result(err)).Inc()
	}()

	if _, err := s.stores.Subscriptions.GetByID(subscriptionID); err != nil {
		return notFound(err, ErrSubscriptionNotFound)
	}

	attrs, err := s.stores.Attributes.ListBySubscriptionAndTypeName(subscriptionID, name)
	if err != nil {
		return err
	}
	if len(attrs) == 0 {
		return ErrAttributeNotFound
	}
	attr := attrs[0]
	if attr.Type == nil || !attr.Type.HasUsage {
		return ErrUsageNotTracked
	}

	return s.stores.Transaction(func(tx *repository.Stores) error {
		usage := attr.Usage
		if usage == nil {
			usage = &model.SubscriptionAttributeUsage{SubscriptionAttributeID: attr.ID}
		}
		usage.Value = value
		if err := tx.Attributes.SaveUsage(usage); err != nil {
			return err
		}
		return tx.History.Record(repository.HistoryAttributeUsage, attr.ID, model.HistoryChanged, nil, usage)
	})
}

// ExpireOverdue 将结束日期早于今天的 Active 订阅转为 Expired，逐条保存并触发回调
func (s *SubscriptionService) ExpireOverdue(ctx context.Context) (*dto.ExpireResult, error) {
	result := &dto.ExpireResult{Expired: []int64{}, Failed: map[int64]string{}}

	active, err := s.status(model.StatusActive)
	if err != nil {
		if errors.Is(err, ErrStatusNotFound) {
			return result, nil
		}
		return nil, err
	}
	expired, err := s.status(model.StatusExpired)
	if err != nil {
		return nil, err
	}

	ids, err := s.stores.Subscriptions.ListOverdueIDs(active.ID, s.now())
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		sub, err := s.stores.Subscriptions.GetByID(id)
		if err != nil {
			result.Failed[id] = err.Error()
			continue
		}
		sub.StatusID = expired.ID
		sub.Status = expired

		if err := s.save(ctx, sub, model.StatusExpired, nil, nil); err != nil {
			s.logger.Warn("failed to expire subscription", zap.Int64("subscription_id", id), zap.Error(err))
			result.Failed[id] = err.Error()
			continue
		}
		result.Expired = append(result.Expired, id)
	}

	return result, nil
}
