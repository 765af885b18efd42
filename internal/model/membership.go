package model

import (
	"time"
)

// 订阅成员状态
const (
	UserStatusActive  = "Active"
	UserStatusError   = "Error"
	UserStatusRemoved = "Removed"
)

var SubscriptionUserStatuses = []string{UserStatusActive, UserStatusError, UserStatusRemoved}

type SubscriptionUserStatusChoice struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:64;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SubscriptionUserStatusChoice) TableName() string {
	return "subscription_user_status_choices"
}

// SubscriptionUser 用户在订阅中的成员关系，(user, subscription) 唯一
type SubscriptionUser struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	SubscriptionID int64     `gorm:"not null;uniqueIndex:idx_subscription_user,priority:2" json:"subscription_id"`
	UserID         int64     `gorm:"not null;uniqueIndex:idx_subscription_user,priority:1" json:"user_id"`
	StatusID       int64     `gorm:"not null;index" json:"status_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	User   *User                         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status *SubscriptionUserStatusChoice `gorm:"foreignKey:StatusID" json:"status,omitempty"`
}

func (SubscriptionUser) TableName() string {
	return "subscription_users"
}
