package dto

// CreateAttributeTypeRequest 创建订阅属性类型
type CreateAttributeTypeRequest struct {
	Name       string `json:"name" binding:"required,max=50"`
	Kind       string `json:"kind" binding:"required,max=64"`
	HasUsage   bool   `json:"has_usage"`
	IsRequired bool   `json:"is_required"`
	IsUnique   bool   `json:"is_unique"`
	IsPrivate  *bool  `json:"is_private,omitempty"`
}

// AttributeTypeItem 订阅属性类型
type AttributeTypeItem struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	HasUsage   bool   `json:"has_usage"`
	IsRequired bool   `json:"is_required"`
	IsUnique   bool   `json:"is_unique"`
	IsPrivate  bool   `json:"is_private"`
}

// CreateAttributeRequest 添加订阅属性
type CreateAttributeRequest struct {
	TypeID int64  `json:"type_id" binding:"required"`
	Value  string `json:"value" binding:"required,max=128"`
}

// UpdateAttributeRequest 修改订阅属性值
type UpdateAttributeRequest struct {
	Value string `json:"value" binding:"required,max=128"`
}

// AttributeItem 订阅属性
type AttributeItem struct {
	ID           int64    `json:"id"`
	TypeID       int64    `json:"type_id"`
	TypeName     string   `json:"type_name"`
	Kind         string   `json:"kind"`
	Value        string   `json:"value"`
	IsPrivate    bool     `json:"is_private"`
	Usage        *float64 `json:"usage,omitempty"`
	UsagePercent string   `json:"usage_percent,omitempty"`
}
