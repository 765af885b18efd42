package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/qs3c/alloc_server/internal/model"
)

// TestPassword 所有测试用户的明文密码
const TestPassword = "password123"

var seq int64

func nextSeq() int64 {
	return atomic.AddInt64(&seq, 1)
}

var passwordHash = func() string {
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}()

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	n := nextSeq()
	email := fmt.Sprintf("user%d@example.org", n)
	hash := passwordHash
	user := &model.User{
		Username:     fmt.Sprintf("user%d", n),
		Email:        &email,
		PasswordHash: &hash,
		IsActive:     true,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithUsername 设置用户名
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = &email
	}
}

// WithStaff 设置为管理员
func WithStaff() func(*model.User) {
	return func(u *model.User) {
		u.IsStaff = true
	}
}

// WithInactive 禁用用户
func WithInactive() func(*model.User) {
	return func(u *model.User) {
		u.IsActive = false
	}
}

// TestProject 创建测试项目
func TestProject(t *testing.T, db *gorm.DB, piID int64) *model.Project {
	t.Helper()

	project := &model.Project{
		Title:  fmt.Sprintf("Project %d", nextSeq()),
		PIID:   piID,
		Status: "Active",
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("Failed to create test project: %v", err)
	}
	return project
}

// TestResource 创建测试资源，默认可订阅
func TestResource(t *testing.T, db *gorm.DB, name string, subscribable bool) *model.Resource {
	t.Helper()

	resource := &model.Resource{
		Name:           name,
		ResourceType:   "Cluster",
		IsSubscribable: subscribable,
	}
	if err := db.Create(resource).Error; err != nil {
		t.Fatalf("Failed to create test resource: %v", err)
	}
	return resource
}

// TestStatus 获取或创建订阅状态
func TestStatus(t *testing.T, db *gorm.DB, name string) *model.SubscriptionStatusChoice {
	t.Helper()

	status := &model.SubscriptionStatusChoice{}
	if err := db.Where(model.SubscriptionStatusChoice{Name: name}).FirstOrCreate(status).Error; err != nil {
		t.Fatalf("Failed to create test status: %v", err)
	}
	return status
}

// TestUserStatus 获取或创建成员状态
func TestUserStatus(t *testing.T, db *gorm.DB, name string) *model.SubscriptionUserStatusChoice {
	t.Helper()

	status := &model.SubscriptionUserStatusChoice{}
	if err := db.Where(model.SubscriptionUserStatusChoice{Name: name}).FirstOrCreate(status).Error; err != nil {
		t.Fatalf("Failed to create test user status: %v", err)
	}
	return status
}

// TestAttributeType 创建订阅属性类型
func TestAttributeType(t *testing.T, db *gorm.DB, name, kind string, opts ...func(*model.SubscriptionAttributeType)) *model.SubscriptionAttributeType {
	t.Helper()

	base := &model.AttributeType{}
	if err := db.Where(model.AttributeType{Name: kind}).FirstOrCreate(base).Error; err != nil {
		t.Fatalf("Failed to create attribute kind: %v", err)
	}

	attrType := &model.SubscriptionAttributeType{
		AttributeTypeID: base.ID,
		Name:            name,
	}
	for _, opt := range opts {
		opt(attrType)
	}
	if err := db.Create(attrType).Error; err != nil {
		t.Fatalf("Failed to create test attribute type: %v", err)
	}
	attrType.AttributeType = base
	return attrType
}

// WithUsage 属性记录用量
func WithUsage() func(*model.SubscriptionAttributeType) {
	return func(a *model.SubscriptionAttributeType) {
		a.HasUsage = true
	}
}

// WithUnique 同一订阅只允许一个
func WithUnique() func(*model.SubscriptionAttributeType) {
	return func(a *model.SubscriptionAttributeType) {
		a.IsUnique = true
	}
}

// WithPrivate 仅管理员可见
func WithPrivate() func(*model.SubscriptionAttributeType) {
	return func(a *model.SubscriptionAttributeType) {
		a.IsPrivate = true
	}
}

// Date 解析测试日期，格式 YYYY-MM-DD
func Date(value string) *time.Time {
	d, err := time.Parse(model.DateLayout, value)
	if err != nil {
		panic(err)
	}
	return &d
}

// TestSubscription 创建测试订阅，直接写库不经过校验
func TestSubscription(t *testing.T, db *gorm.DB, projectID int64, status string, opts ...func(*model.Subscription)) *model.Subscription {
	t.Helper()

	sub := &model.Subscription{
		ProjectID:     projectID,
		StatusID:      TestStatus(t, db, status).ID,
		Quantity:      1,
		Justification: "test justification",
	}
	for _, opt := range opts {
		opt(sub)
	}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("Failed to create test subscription: %v", err)
	}
	return sub
}

// WithDates 设置起止日期，空字符串表示不设置
func WithDates(start, end string) func(*model.Subscription) {
	return func(s *model.Subscription) {
		if start != "" {
			s.StartDate = Date(start)
		}
		if end != "" {
			s.EndDate = Date(end)
		}
	}
}

// WithResources 关联资源
func WithResources(resources ...*model.Resource) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.Resources = resources
	}
}

// TestAttribute 创建订阅属性，类型记录用量时同时创建用量
func TestAttribute(t *testing.T, db *gorm.DB, subscriptionID int64, attrType *model.SubscriptionAttributeType, value string) *model.SubscriptionAttribute {
	t.Helper()

	attr := &model.SubscriptionAttribute{
		SubscriptionAttributeTypeID: attrType.ID,
		SubscriptionID:              subscriptionID,
		Value:                       value,
	}
	if err := db.Create(attr).Error; err != nil {
		t.Fatalf("Failed to create test attribute: %v", err)
	}
	if attrType.HasUsage {
		usage := &model.SubscriptionAttributeUsage{SubscriptionAttributeID: attr.ID}
		if err := db.Create(usage).Error; err != nil {
			t.Fatalf("Failed to create test usage: %v", err)
		}
		attr.Usage = usage
	}
	attr.Type = attrType
	return attr
}

// TestMember 添加订阅成员
func TestMember(t *testing.T, db *gorm.DB, subscriptionID, userID int64, status string) *model.SubscriptionUser {
	t.Helper()

	member := &model.SubscriptionUser{
		SubscriptionID: subscriptionID,
		UserID:         userID,
		StatusID:       TestUserStatus(t, db, status).ID,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("Failed to create test member: %v", err)
	}
	return member
}
