package model

import (
	"time"
)

type Project struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	PIID        int64     `gorm:"column:pi_id;not null;index" json:"pi_id"`
	Description string    `gorm:"type:text" json:"description"`
	Status      string    `gorm:"size:20;default:Active" json:"status"` // New, Active, Archived
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// 关联
	PI *User `gorm:"foreignKey:PIID" json:"pi,omitempty"`
}

func (Project) TableName() string {
	return "projects"
}

// Resource 可被订阅的共享计算/存储资源
type Resource struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:128;uniqueIndex;not null" json:"name"`
	Description    string    `gorm:"type:text" json:"description"`
	ResourceType   string    `gorm:"size:64" json:"resource_type"` // Cluster, Storage, Cloud ...
	IsSubscribable bool      `gorm:"not null" json:"is_subscribable"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Resource) TableName() string {
	return "resources"
}
