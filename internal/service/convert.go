package service

import (
	"encoding/json"
	"time"

	"github.com/qs3c/alloc_server/internal/model"
	"github.com/qs3c/alloc_server/internal/model/dto"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func toUserInfo(u *model.User) *dto.UserInfo {
	info := &dto.UserInfo{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName(),
		IsStaff:  u.IsStaff,
	}
	if u.Email != nil {
		info.Email = *u.Email
	}
	return info
}

func toResourceItems(resources []*model.Resource) []*dto.ResourceItem {
	items := make([]*dto.ResourceItem, 0, len(resources))
	for _, r := range resources {
		items = append(items, &dto.ResourceItem{
			ID:             r.ID,
			Name:           r.Name,
			ResourceType:   r.ResourceType,
			IsSubscribable: r.IsSubscribable,
		})
	}
	return items
}

func toAttributeItem(attr *model.SubscriptionAttribute) *dto.AttributeItem {
	item := &dto.AttributeItem{
		ID:     attr.ID,
		TypeID: attr.SubscriptionAttributeTypeID,
		Value:  attr.Value,
	}
	if attr.Type != nil {
		item.TypeName = attr.Type.Name
		item.Kind = attr.Type.Kind()
		item.IsPrivate = attr.Type.IsPrivate
	}
	if attr.Usage != nil {
		usage := attr.Usage.Value
		item.Usage = &usage
		item.UsagePercent, _ = model.UsagePercent(usage, attr.Value)
	}
	return item
}

// visibleAttributes 非管理员过滤私有属性
func visibleAttributes(attrs []*model.SubscriptionAttribute, includePrivate bool) []*model.SubscriptionAttribute {
	if includePrivate {
		return attrs
	}
	visible := make([]*model.SubscriptionAttribute, 0, len(attrs))
	for _, a := range attrs {
		if a.Type != nil && a.Type.IsPrivate {
			continue
		}
		visible = append(visible, a)
	}
	return visible
}

func toSubscriptionDetail(sub *model.Subscription, today time.Time) *dto.SubscriptionDetail {
	detail := &dto.SubscriptionDetail{
		ID:                sub.ID,
		ProjectID:         sub.ProjectID,
		Title:             sub.Title(),
		Status:            sub.StatusName(),
		Quantity:          sub.Quantity,
		StartDate:         model.FormatDate(sub.StartDate),
		EndDate:           model.FormatDate(sub.EndDate),
		ExpiresIn:         sub.ExpiresIn(today),
		Justification:     sub.Justification,
		Resources:         toResourceItems(sub.Resources),
		ResourcesAsString: sub.ResourcesAsString(),
		CreatedAt:         formatTime(sub.CreatedAt),
		UpdatedAt:         formatTime(sub.UpdatedAt),
	}
	if sub.Project != nil {
		detail.ProjectTitle = sub.Project.Title
	}
	if sub.Description != nil {
		detail.Description = *sub.Description
	}
	if parent := sub.ParentResource(); parent != nil {
		detail.ParentResource = parent.Name
	}
	return detail
}

func toMemberItem(m *model.SubscriptionUser) *dto.MemberItem {
	item := &dto.MemberItem{
		UserID:    m.UserID,
		CreatedAt: formatTime(m.CreatedAt),
	}
	if m.User != nil {
		item.Username = m.User.Username
		item.FullName = m.User.FullName()
	}
	if m.Status != nil {
		item.Status = m.Status.Name
	}
	return item
}

func toHistoryItem(r *model.HistoricalRecord) *dto.HistoryItem {
	return &dto.HistoryItem{
		ID:            r.ID,
		HistoryType:   r.HistoryType,
		HistoryUserID: r.HistoryUserID,
		HistoryDate:   formatTime(r.HistoryDate),
		Snapshot:      json.RawMessage(r.Snapshot),
	}
}

// subscriptionSnapshot 历史快照只保留订阅字段、状态与资源
func subscriptionSnapshot(sub *model.Subscription) *model.Subscription {
	snapshot := *sub
	snapshot.Project = nil
	snapshot.Attributes = nil
	return &snapshot
}
