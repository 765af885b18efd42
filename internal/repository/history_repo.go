package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/qs3c/alloc_server/internal/model"
)

// 历史记录中的模型名称
const (
	HistorySubscription     = "subscription"
	HistoryAttribute        = "subscription_attribute"
	HistoryAttributeType    = "subscription_attribute_type"
	HistoryAttributeUsage   = "subscription_attribute_usage"
	HistorySubscriptionUser = "subscription_user"
)

type HistoryRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db, now: time.Now}
}

// Record 保存 obj 的 JSON 快照
func (r *HistoryRepository) Record(modelName string, objectID int64, historyType string, userID *int64, obj interface{}) error {
	snapshot, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("failed to marshal %s snapshot: %w", modelName, err)
	}

	return r.db.Create(&model.HistoricalRecord{
		Model:         modelName,
		ObjectID:      objectID,
		HistoryType:   historyType,
		HistoryUserID: userID,
		HistoryDate:   r.now().UTC(),
		Snapshot:      datatypes.JSON(snapshot),
	}).Error
}

// ListByObject 按时间倒序返回对象的历史
func (r *HistoryRepository) ListByObject(modelName string, objectID int64) ([]*model.HistoricalRecord, error) {
	var records []*model.HistoricalRecord
	err := r.db.
		Where("model = ? AND object_id = ?", modelName, objectID).
		Order("history_date DESC, id DESC").
		Find(&records).Error
	return records, err
}
