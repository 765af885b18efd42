package service

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/qs3c/alloc_server/internal/model"
	"github.com/qs3c/alloc_server/internal/model/dto"
	"github.com/qs3c/alloc_server/internal/pkg/metrics"
	"github.com/qs3c/alloc_server/internal/repository"
)

type AttributeService struct {
	stores *repository.Stores
	logger *zap.Logger
}

func NewAttributeService(stores *repository.Stores, logger *zap.Logger) *AttributeService {
	return &AttributeService{stores: stores, logger: logger}
}

func toAttributeTypeItem(t *model.SubscriptionAttributeType) *dto.AttributeTypeItem {
	return &dto.AttributeTypeItem{
		ID:         t.ID,
		Name:       t.Name,
		Kind:       t.Kind(),
		HasUsage:   t.HasUsage,
		IsRequired: t.IsRequired,
		IsUnique:   t.IsUnique,
		IsPrivate:  t.IsPrivate,
	}
}

// CreateAttributeType 新增订阅属性类型，默认私有
func (s *AttributeService) CreateAttributeType(userID int64, req *dto.CreateAttributeTypeRequest) (*dto.AttributeTypeItem, error) {
	actor, err := loadActor(s.stores, userID)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff {
		return nil, ErrPermissionDenied
	}

	kind, err := s.stores.Vocabulary.GetAttributeKindByName(req.Kind)
	if err != nil {
		return nil, notFound(err, ErrAttributeKindNotFound)
	}
	_, err = s.stores.AttributeTypes.GetByName(req.Name)
	switch {
	case err == nil:
		return nil, ErrAttributeTypeExists
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	attrType := &model.SubscriptionAttributeType{
		AttributeTypeID: kind.ID,
		Name:            req.Name,
		HasUsage:        req.HasUsage,
		IsRequired:      req.IsRequired,
		IsUnique:        req.IsUnique,
		IsPrivate:       true,
		AttributeType:   kind,
	}
	if req.IsPrivate != nil {
		attrType.IsPrivate = *req.IsPrivate
	}

	err = s.stores.Transaction(func(tx *repository.Stores) error {
		if err := tx.AttributeTypes.Create(attrType); err != nil {
			return err
		}
		return tx.History.Record(repository.HistoryAttributeType, attrType.ID, model.HistoryCreated, &userID, attrType)
	})
	if err != nil {
		return nil, err
	}
	return toAttributeTypeItem(attrType), nil
}

// ListAttributeTypes 非管理员只能看到公开类型
func (s *AttributeService) ListAttributeTypes(userID int64) ([]*dto.AttributeTypeItem, error) {
	actor, err := loadActor(s.stores, userID)
	if err != nil {
		return nil, err
	}

	types, err := s.stores.AttributeTypes.List(actor.IsStaff)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.AttributeTypeItem, 0, len(types))
	for _, t := range types {
		items = append(items, toAttributeTypeItem(t))
	}
	return items, nil
}

// check 唯一性优先于值类型校验，excludeID 为正在修改的属性。
// 需在事务中调用，先锁定订阅行再计数。
func (s *AttributeService) check(tx *repository.Stores, subscriptionID int64, attrType *model.SubscriptionAttributeType, value string, excludeID int64) error {
	if attrType.IsUnique {
		if err := tx.Subscriptions.LockByID(subscriptionID); err != nil {
			return notFound(err, ErrSubscriptionNotFound)
		}
		count, err := tx.Attributes.CountOfType(subscriptionID, attrType.ID, excludeID)
		if err != nil {
			return err
		}
		if count > 0 {
			metrics.ValidationFailures.WithLabelValues("attribute").Inc()
			return model.UniqueAttributeError(attrType)
		}
	}

	if err := model.CheckAttributeValue(attrType.Kind(), value); err != nil {
		metrics.ValidationFailures.WithLabelValues("attribute").Inc()
		return err
	}
	return nil
}

// AddAttribute 添加属性，类型记录用量时同时创建用量记录
func (s *AttributeService) AddAttribute(userID, subscriptionID int64, req *dto.CreateAttributeRequest) (*dto.AttributeItem, error) {
	actor, sub, err := authorize(s.stores, userID, subscriptionID, true)
	if err != nil {
		return nil, err
	}

	attrType, err := s.stores.AttributeTypes.GetByID(req.TypeID)
	if err != nil {
		return nil, notFound(err, ErrAttributeTypeNotFound)
	}
	if attrType.IsPrivate && !actor.IsStaff {
		return nil, ErrPermissionDenied
	}

	attr := &model.SubscriptionAttribute{
		SubscriptionAttributeTypeID: attrType.ID,
		SubscriptionID:              sub.ID,
		Value:                       req.Value,
		Type:                        attrType,
	}
	err = s.stores.Transaction(func(tx *repository.Stores) error {
		if err := s.check(tx, sub.ID, attrType, req.Value, 0); err != nil {
			return err
		}
		if err := tx.Attributes.Create(attr); err != nil {
			return err
		}
		if err := tx.History.Record(repository.HistoryAttribute, attr.ID, model.HistoryCreated, &userID, attr); err != nil {
			return err
		}
		if !attrType.HasUsage {
			return nil
		}
		attr.Usage = &model.SubscriptionAttributeUsage{SubscriptionAttributeID: attr.ID}
		if err := tx.Attributes.CreateUsage(attr.Usage); err != nil {
			return err
		}
		return tx.History.Record(repository.HistoryAttributeUsage, attr.ID, model.HistoryCreated, &userID, attr.Usage)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("subscription attribute added",
		zap.Int64("subscription_id", sub.ID),
		zap.String("attribute_type", attrType.Name),
	)
	return toAttributeItem(attr), nil
}

func (s *AttributeService) loadForManage(userID, attributeID int64) (*model.User, *model.SubscriptionAttribute, error) {
	attr, err := s.stores.Attributes.GetByID(attributeID)
	if err != nil {
		return nil, nil, notFound(err, ErrAttributeNotFound)
	}
	actor, _, err := authorize(s.stores, userID, attr.SubscriptionID, true)
	if err != nil {
		return nil, nil, err
	}
	if attr.Type != nil && attr.Type.IsPrivate && !actor.IsStaff {
		return nil, nil, ErrPermissionDenied
	}
	return actor, attr, nil
}

// UpdateAttribute 修改属性值
func (s *AttributeService) UpdateAttribute(userID, attributeID int64, req *dto.UpdateAttributeRequest) (*dto.AttributeItem, error) {
	_, attr, err := s.loadForManage(userID, attributeID)
	if err != nil {
		return nil, err
	}

	attr.Value = req.Value
	err = s.stores.Transaction(func(tx *repository.Stores) error {
		if err := s.check(tx, attr.SubscriptionID, attr.Type, req.Value, attr.ID); err != nil {
			return err
		}
		if err := tx.Attributes.Update(attr); err != nil {
			return err
		}
		return tx.History.Record(repository.HistoryAttribute, attr.ID, model.HistoryChanged, &userID, attr)
	})
	if err != nil {
		return nil, err
	}
	return toAttributeItem(attr), nil
}

// DeleteAttribute 删除属性及其用量
func (s *AttributeService) DeleteAttribute(userID, attributeID int64) error {
	_, attr, err := s.loadForManage(userID, attributeID)
	if err != nil {
		return err
	}

	return s.stores.Transaction(func(tx *repository.Stores) error {
		if attr.Usage != nil {
			if err := tx.Attributes.DeleteUsage(attr.ID); err != nil {
				return err
			}
			if err := tx.History.Record(repository.HistoryAttributeUsage, attr.ID, model.HistoryDeleted, &userID, attr.Usage); err != nil {
				return err
			}
		}
		if err := tx.Attributes.Delete(attr.ID); err != nil {
			return err
		}
		return tx.History.Record(repository.HistoryAttribute, attr.ID, model.HistoryDeleted, &userID, attr)
	})
}

// ListAttributes 订阅属性列表
func (s *AttributeService) ListAttributes(userID, subscriptionID int64) ([]*dto.AttributeItem, error) {
	actor, sub, err := authorize(s.stores, userID, subscriptionID, false)
	if err != nil {
		return nil, err
	}

	attrs := visibleAttributes(sub.Attributes, actor.IsStaff)
	items := make([]*dto.AttributeItem, 0, len(attrs))
	for _, a := range attrs {
		items = append(items, toAttributeItem(a))
	}
	return items, nil
}
