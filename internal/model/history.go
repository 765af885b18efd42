package model

import (
	"time"

	"gorm.io/datatypes"
)

// 历史记录类型
const (
	HistoryCreated = "+"
	HistoryChanged = "~"
	HistoryDeleted = "-"
)

// HistoricalRecord 审计日志，每次变更保存一份完整快照
type HistoricalRecord struct {
	ID            int64          `gorm:"primaryKey" json:"id"`
	Model         string         `gorm:"size:64;not null;index:idx_history_object,priority:1" json:"model"`
	ObjectID      int64          `gorm:"not null;index:idx_history_object,priority:2" json:"object_id"`
	HistoryType   string         `gorm:"size:1;not null" json:"history_type"`
	HistoryUserID *int64         `gorm:"index" json:"history_user_id,omitempty"`
	HistoryDate   time.Time      `gorm:"not null;index" json:"history_date"`
	Snapshot      datatypes.JSON `json:"snapshot"`
}

func (HistoricalRecord) TableName() string {
	return "historical_records"
}
