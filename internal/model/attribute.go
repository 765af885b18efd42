package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// 属性值的基本类型
const (
	AttributeKindInt   = "Int"
	AttributeKindFloat = "Float"
	AttributeKindYesNo = "Yes/No"
	AttributeKindDate  = "Date"
	AttributeKindText  = "Text"
)

var AttributeKinds = []string{
	AttributeKindDate, AttributeKindFloat, AttributeKindInt, AttributeKindText, AttributeKindYesNo,
}

// InvalidUsageValue 限额无法解析为数字时的展示值
const InvalidUsageValue = "Invalid Value"

// AttributeType 属性值类型词表
type AttributeType struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:64;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AttributeType) TableName() string {
	return "attribute_types"
}

// SubscriptionAttributeType 订阅属性的定义
type SubscriptionAttributeType struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	AttributeTypeID int64     `gorm:"not null;index" json:"attribute_type_id"`
	Name            string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	HasUsage        bool      `gorm:"not null" json:"has_usage"`
	IsRequired      bool      `gorm:"not null" json:"is_required"`
	IsUnique        bool      `gorm:"not null" json:"is_unique"`
	IsPrivate       bool      `gorm:"not null" json:"is_private"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	AttributeType *AttributeType `gorm:"foreignKey:AttributeTypeID" json:"attribute_type,omitempty"`
}

func (SubscriptionAttributeType) TableName() string {
	return "subscription_attribute_types"
}

// Kind 值类型名称
func (t *SubscriptionAttributeType) Kind() string {
	if t.AttributeType == nil {
		return ""
	}
	return strings.TrimSpace(t.AttributeType.Name)
}

func (t *SubscriptionAttributeType) String() string {
	return fmt.Sprintf("%s (%s)", t.Name, t.Kind())
}

// SubscriptionAttribute 订阅上的键值属性
type SubscriptionAttribute struct {
	ID                          int64     `gorm:"primaryKey" json:"id"`
	SubscriptionAttributeTypeID int64     `gorm:"not null;index" json:"subscription_attribute_type_id"`
	SubscriptionID              int64     `gorm:"not null;index" json:"subscription_id"`
	Value                       string    `gorm:"size:128;not null" json:"value"`
	CreatedAt                   time.Time `json:"created_at"`
	UpdatedAt                   time.Time `json:"updated_at"`

	Type  *SubscriptionAttributeType  `gorm:"foreignKey:SubscriptionAttributeTypeID" json:"type,omitempty"`
	Usage *SubscriptionAttributeUsage `gorm:"foreignKey:SubscriptionAttributeID" json:"usage,omitempty"`
}

func (SubscriptionAttribute) TableName() string {
	return "subscription_attributes"
}

// TypeName 属性类型名称
func (a *SubscriptionAttribute) TypeName() string {
	if a.Type == nil {
		return ""
	}
	return a.Type.Name
}

// SubscriptionAttributeUsage 属性的实时用量，属性值视为上限
type SubscriptionAttributeUsage struct {
	SubscriptionAttributeID int64     `gorm:"primaryKey;autoIncrement:false" json:"subscription_attribute_id"`
	Value                   float64   `gorm:"not null;default:0" json:"value"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

func (SubscriptionAttributeUsage) TableName() string {
	return "subscription_attribute_usages"
}

// CheckAttributeValue 按值类型校验属性值，未知类型直接通过
func CheckAttributeValue(kind, value string) error {
	trimmed := strings.TrimSpace(value)

	switch strings.TrimSpace(kind) {
	case AttributeKindInt:
		if _, err := strconv.ParseInt(trimmed, 10, 64); err != nil {
			return NewValidationError("value", fmt.Sprintf("Invalid Value %q. Value must be an integer.", value))
		}
	case AttributeKindFloat:
		// 只接受十进制写法
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || strings.ContainsAny(trimmed, "xX") || math.IsInf(f, 0) || math.IsNaN(f) {
			return NewValidationError("value", fmt.Sprintf("Invalid Value %q. Value must be a float.", value))
		}
	case AttributeKindYesNo:
		if value != "Yes" && value != "No" {
			return NewValidationError("value", fmt.Sprintf("Invalid Value %q. Allowed inputs are \"Yes\" or \"No\".", value))
		}
	case AttributeKindDate:
		if _, err := time.Parse(DateLayout, trimmed); err != nil {
			return NewValidationError("value", fmt.Sprintf("Invalid Value %q. Date must be in format YYYY-MM-DD", value))
		}
	}

	return nil
}

// UniqueAttributeError 唯一属性类型在同一订阅上重复
func UniqueAttributeError(t *SubscriptionAttributeType) error {
	return NewValidationError("subscription_attribute_type", fmt.Sprintf("'%s' attribute already exists for this subscription.", t))
}

// UsagePercent 计算 usage / nominal * 100，保留两位小数。
// nominal 不是数字或为 0 时返回 InvalidUsageValue 和 false。
func UsagePercent(usage float64, nominal string) (string, bool) {
	limit, err := decimal.NewFromString(strings.TrimSpace(nominal))
	if err != nil || limit.IsZero() {
		return InvalidUsageValue, false
	}

	percent := decimal.NewFromFloat(usage).
		Div(limit).
		Mul(decimal.NewFromInt(100)).
		Round(2)
	return formatDecimal(percent), true
}

// FormatUsage 用量展示，整数也保留一位小数
func FormatUsage(usage float64) string {
	return formatDecimal(decimal.NewFromFloat(usage))
}

// UsageLine 生成 "类型: 用量/上限 (百分比 %)"
func UsageLine(typeName string, usage float64, nominal string) string {
	percent, _ := UsagePercent(usage, nominal)
	return fmt.Sprintf("%s: %s/%s (%s %%)", typeName, FormatUsage(usage), nominal, percent)
}

func formatDecimal(d decimal.Decimal) string {
	s := d.String()
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
