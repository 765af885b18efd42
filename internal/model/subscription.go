package model

import (
	"sort"
	"strings"
	"time"
)

// 订阅状态名称
const (
	StatusActive           = "Active"
	StatusDenied           = "Denied"
	StatusExpired          = "Expired"
	StatusNew              = "New"
	StatusPaid             = "Paid"
	StatusPaymentPending   = "Payment Pending"
	StatusPaymentRequested = "Payment Requested"
	StatusPaymentDeclined  = "Payment Declined"
	StatusRenewalRequested = "Renewal Requested"
	StatusRevoked          = "Revoked"
	StatusUnpaid           = "Unpaid"
)

// SubscriptionStatuses 默认的订阅状态词表
var SubscriptionStatuses = []string{
	StatusActive, StatusDenied, StatusExpired, StatusNew, StatusPaid,
	StatusPaymentPending, StatusPaymentRequested, StatusPaymentDeclined,
	StatusRenewalRequested, StatusRevoked, StatusUnpaid,
}

type SubscriptionStatusChoice struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:64;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SubscriptionStatusChoice) TableName() string {
	return "subscription_status_choices"
}

// Subscription 项目对共享资源的限时占用
type Subscription struct {
	ID            int64      `gorm:"primaryKey" json:"id"`
	ProjectID     int64      `gorm:"not null;index" json:"project_id"`
	StatusID      int64      `gorm:"not null;index" json:"status_id"`
	Quantity      int        `gorm:"not null;default:1" json:"quantity"`
	StartDate     *time.Time `gorm:"type:date" json:"start_date,omitempty"`
	EndDate       *time.Time `gorm:"type:date;index" json:"end_date,omitempty"`
	Justification string     `gorm:"type:text;not null" json:"justification"`
	Description   *string    `gorm:"size:512" json:"description,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// 关联
	Project    *Project                  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Status     *SubscriptionStatusChoice `gorm:"foreignKey:StatusID" json:"status,omitempty"`
	Resources  []*Resource               `gorm:"many2many:subscription_resources;" json:"resources,omitempty"`
	Attributes []*SubscriptionAttribute  `gorm:"foreignKey:SubscriptionID" json:"attributes,omitempty"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// StatusName 返回已加载的状态名称
func (s *Subscription) StatusName() string {
	if s.Status == nil {
		return ""
	}
	return s.Status.Name
}

// Validate 按状态校验起止日期，today 为当天日期
func (s *Subscription) Validate(statusName string, today time.Time) error {
	switch statusName {
	case StatusExpired:
		if s.EndDate == nil {
			return NewValidationError("end_date", "You have to set the end date.")
		}
		if DateOnly(*s.EndDate).After(DateOnly(today)) {
			return NewValidationError("end_date", "End date cannot be greater than today.")
		}
		if s.StartDate != nil && DateOnly(*s.StartDate).After(DateOnly(*s.EndDate)) {
			return NewValidationError("start_date", "Start date cannot be greater than the end date.")
		}

	case StatusActive:
		if s.StartDate == nil {
			return NewValidationError("start_date", "You have to set the start date.")
		}
		if s.EndDate == nil {
			return NewValidationError("end_date", "You have to set the end date.")
		}
		if DateOnly(*s.StartDate).After(DateOnly(*s.EndDate)) {
			return NewValidationError("start_date", "Start date cannot be greater than the end date.")
		}
	}

	return nil
}

// IsExpiryTransition 判断状态变更是否为进入 Expired
func IsExpiryTransition(previous, next string) bool {
	return previous != next && next == StatusExpired
}

// ExpiresIn 距离结束日期的天数，未设置结束日期时返回 nil
func (s *Subscription) ExpiresIn(today time.Time) *int {
	if s.EndDate == nil {
		return nil
	}
	days := int(DateOnly(*s.EndDate).Sub(DateOnly(today)).Hours() / 24)
	return &days
}

// orderedResources 可订阅资源排在前面，其余保持名称顺序
func (s *Subscription) orderedResources() []*Resource {
	resources := make([]*Resource, len(s.Resources))
	copy(resources, s.Resources)
	sort.SliceStable(resources, func(i, j int) bool {
		if resources[i].IsSubscribable != resources[j].IsSubscribable {
			return resources[i].IsSubscribable
		}
		return resources[i].Name < resources[j].Name
	})
	return resources
}

// ResourcesAsString 资源名称列表
func (s *Subscription) ResourcesAsString() string {
	names := make([]string, 0, len(s.Resources))
	for _, r := range s.orderedResources() {
		names = append(names, r.Name)
	}
	return strings.Join(names, ", ")
}

// ParentResource 第一个可订阅资源
func (s *Subscription) ParentResource() *Resource {
	for _, r := range s.orderedResources() {
		if r.IsSubscribable {
			return r
		}
	}
	return nil
}

// Title 展示名称，如 "cluster (alice)"
func (s *Subscription) Title() string {
	name := ""
	if parent := s.ParentResource(); parent != nil {
		name = parent.Name
	}
	if s.Project != nil && s.Project.PI != nil {
		return name + " (" + s.Project.PI.Username + ")"
	}
	return name
}

type SubscriptionAdminNote struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	SubscriptionID int64     `gorm:"not null;index" json:"subscription_id"`
	AuthorID       int64     `gorm:"not null;index" json:"author_id"`
	Note           string    `gorm:"type:text;not null" json:"note"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (SubscriptionAdminNote) TableName() string {
	return "subscription_admin_notes"
}

type SubscriptionUserNote struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	SubscriptionID int64     `gorm:"not null;index" json:"subscription_id"`
	AuthorID       int64     `gorm:"not null;index" json:"author_id"`
	IsPrivate      bool      `gorm:"not null" json:"is_private"`
	Note           string    `gorm:"type:text;not null" json:"note"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (SubscriptionUserNote) TableName() string {
	return "subscription_user_notes"
}

// SubscriptionAccount 外部计费系统使用的账号名，全局唯一
type SubscriptionAccount struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	Name      string    `gorm:"size:64;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SubscriptionAccount) TableName() string {
	return "subscription_accounts"
}
