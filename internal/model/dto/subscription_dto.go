package dto

// CreateSubscriptionRequest 创建订阅请求
type CreateSubscriptionRequest struct {
	ProjectID     int64   `json:"project_id" binding:"required"`
	ResourceIDs   []int64 `json:"resource_ids" binding:"required,min=1"`
	Status        string  `json:"status" binding:"required,max=64"`
	Quantity      int     `json:"quantity,omitempty" binding:"omitempty,min=1"`
	StartDate     string  `json:"start_date,omitempty" binding:"omitempty,isodate"`
	EndDate       string  `json:"end_date,omitempty" binding:"omitempty,isodate"`
	Justification string  `json:"justification" binding:"required"`
	Description   *string `json:"description,omitempty" binding:"omitempty,max=512"`
}

// UpdateSubscriptionRequest 更新订阅请求，日期传空字符串表示清除
type UpdateSubscriptionRequest struct {
	ResourceIDs   []int64 `json:"resource_ids,omitempty" binding:"omitempty,min=1"`
	Status        *string `json:"status,omitempty" binding:"omitempty,max=64"`
	Quantity      *int    `json:"quantity,omitempty" binding:"omitempty,min=1"`
	StartDate     *string `json:"start_date,omitempty" binding:"omitempty,isodate"`
	EndDate       *string `json:"end_date,omitempty" binding:"omitempty,isodate"`
	Justification *string `json:"justification,omitempty" binding:"omitempty,min=1"`
	Description   *string `json:"description,omitempty" binding:"omitempty,max=512"`
}

// ResourceItem 资源信息
type ResourceItem struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	ResourceType   string `json:"resource_type,omitempty"`
	IsSubscribable bool   `json:"is_subscribable"`
}

// SubscriptionDetail 订阅详情
type SubscriptionDetail struct {
	ID                int64            `json:"id"`
	ProjectID         int64            `json:"project_id"`
	ProjectTitle      string           `json:"project_title,omitempty"`
	Title             string           `json:"title"`
	Status            string           `json:"status"`
	Quantity          int              `json:"quantity"`
	StartDate         string           `json:"start_date,omitempty"`
	EndDate           string           `json:"end_date,omitempty"`
	ExpiresIn         *int             `json:"expires_in,omitempty"`
	Justification     string           `json:"justification"`
	Description       string           `json:"description,omitempty"`
	Resources         []*ResourceItem  `json:"resources"`
	ResourcesAsString string           `json:"resources_as_string"`
	ParentResource    string           `json:"parent_resource,omitempty"`
	Information       []string         `json:"information,omitempty"`
	Attributes        []*AttributeItem `json:"attributes,omitempty"`
	CreatedAt         string           `json:"created_at"`
	UpdatedAt         string           `json:"updated_at"`
}

// HistoryItem 历史记录项
type HistoryItem struct {
	ID            int64  `json:"id"`
	HistoryType   string `json:"history_type"`
	HistoryUserID *int64 `json:"history_user_id,omitempty"`
	HistoryDate   string `json:"history_date"`
	Snapshot      any    `json:"snapshot"`
}

// SetUsageRequest 按属性名称更新用量
type SetUsageRequest struct {
	AttributeName string  `json:"attribute_name" binding:"required,max=50"`
	Value         float64 `json:"value"`
}

// ExpireResult 过期巡检结果
type ExpireResult struct {
	Expired []int64          `json:"expired"`
	Failed  map[int64]string `json:"failed,omitempty"`
}

// StatusItem 订阅状态
type StatusItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SeedResult 初始化词表的结果，只统计新建的行
type SeedResult struct {
	Statuses       int `json:"statuses"`
	UserStatuses   int `json:"user_statuses"`
	AttributeKinds int `json:"attribute_kinds"`
	AttributeTypes int `json:"attribute_types"`
}
