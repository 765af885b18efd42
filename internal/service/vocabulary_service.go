package service

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/qs3c/alloc_server/internal/model"
	"github.com/qs3c/alloc_server/internal/model/dto"
	"github.com/qs3c/alloc_server/internal/repository"
)

type defaultAttributeType struct {
	name      string
	kind      string
	hasUsage  bool
	isUnique  bool
	isPrivate bool
}

// 常用的订阅属性类型
var defaultAttributeTypes = []defaultAttributeType{
	{name: "slurm_account_name", kind: model.AttributeKindText, isUnique: true},
	{name: "Core Usage (Hours)", kind: model.AttributeKindFloat, hasUsage: true},
	{name: "Storage Quota (GB)", kind: model.AttributeKindInt, hasUsage: true},
	{name: "Purchase Order Number", kind: model.AttributeKindInt, isPrivate: true},
	{name: "send_expiry_email_on_date", kind: model.AttributeKindDate, isPrivate: true},
	{name: "EXPIRE NOTIFICATION", kind: model.AttributeKindYesNo},
}

type VocabularyService struct {
	stores *repository.Stores
	logger *zap.Logger
}

func NewVocabularyService(stores *repository.Stores, logger *zap.Logger) *VocabularyService {
	return &VocabularyService{stores: stores, logger: logger}
}

// SeedDefaults 写入默认词表，已存在的行保持不变
func (s *VocabularyService) SeedDefaults() (*dto.SeedResult, error) {
	result := &dto.SeedResult{}

	err := s.stores.Transaction(func(tx *repository.Stores) error {
		for _, name := range model.SubscriptionStatuses {
			created, err := tx.Vocabulary.EnsureStatus(name)
			if err != nil {
				return err
			}
			if created {
				result.Statuses++
			}
		}
		for _, name := range model.SubscriptionUserStatuses {
			created, err := tx.Vocabulary.EnsureUserStatus(name)
			if err != nil {
				return err
			}
			if created {
				result.UserStatuses++
			}
		}
		for _, name := range model.AttributeKinds {
			created, err := tx.Vocabulary.EnsureAttributeKind(name)
			if err != nil {
				return err
			}
			if created {
				result.AttributeKinds++
			}
		}

		for _, d := range defaultAttributeTypes {
			_, err := tx.AttributeTypes.GetByName(d.name)
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			kind, err := tx.Vocabulary.GetAttributeKindByName(d.kind)
			if err != nil {
				return err
			}
			attrType := &model.SubscriptionAttributeType{
				AttributeTypeID: kind.ID,
				Name:            d.name,
				HasUsage:        d.hasUsage,
				IsUnique:        d.isUnique,
				IsPrivate:       d.isPrivate,
			}
			if err := tx.AttributeTypes.Create(attrType); err != nil {
				return err
			}
			result.AttributeTypes++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("vocabulary seeded",
		zap.Int("statuses", result.Statuses),
		zap.Int("user_statuses", result.UserStatuses),
		zap.Int("attribute_kinds", result.AttributeKinds),
		zap.Int("attribute_types", result.AttributeTypes),
	)
	return result, nil
}

// ListStatuses 订阅状态列表
func (s *VocabularyService) ListStatuses() ([]*dto.StatusItem, error) {
	statuses, err := s.stores.Vocabulary.ListStatuses()
	if err != nil {
		return nil, err
	}
	items := make([]*dto.StatusItem, 0, len(statuses))
	for _, st := range statuses {
		items = append(items, &dto.StatusItem{ID: st.ID, Name: st.Name})
	}
	return items, nil
}
