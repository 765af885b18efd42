package repository

import (
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qs3c/alloc_server/internal/model"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// SubscriptionFilter 列表过滤条件，零值表示不过滤
type SubscriptionFilter struct {
	ProjectID int64
	StatusID  int64
	// 非管理员只能看到自己是 PI 或成员的订阅
	VisibleTo int64
}

// Create 创建订阅并关联已有资源
func (r *SubscriptionRepository) Create(sub *model.Subscription) error {
	return r.db.Omit("Resources.*", "Project", "Status", "Attributes").Create(sub).Error
}

func (r *SubscriptionRepository) GetByID(id int64) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Preload("Status").Where("id = ?", id).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// LockByID 在事务中锁定订阅行，串行化同一订阅上的属性写入
func (r *SubscriptionRepository) LockByID(id int64) error {
	var sub model.Subscription
	return r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", id).
		First(&sub).Error
}

// GetDetail 获取订阅及全部展示所需的关联
func (r *SubscriptionRepository) GetDetail(id int64) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.
		Preload("Status").
		Preload("Project.PI").
		Preload("Resources").
		Preload("Attributes", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Attributes.Type.AttributeType").
		Preload("Attributes.Usage").
		Where("id = ?", id).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetStatusName 读取已持久化的状态名称
func (r *SubscriptionRepository) GetStatusName(id int64) (string, error) {
	var name string
	err := r.db.Model(&model.Subscription{}).
		Select("subscription_status_choices.name").
		Joins("JOIN subscription_status_choices ON subscription_status_choices.id = subscriptions.status_id").
		Where("subscriptions.id = ?", id).
		Row().Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", gorm.ErrRecordNotFound
	}
	return name, err
}

// Update 只保存订阅本身的字段
func (r *SubscriptionRepository) Update(sub *model.Subscription) error {
	return r.db.Omit(clause.Associations).Save(sub).Error
}

// ReplaceResources 替换关联资源
func (r *SubscriptionRepository) ReplaceResources(sub *model.Subscription, resources []*model.Resource) error {
	return r.db.Model(sub).Omit("Resources.*").Association("Resources").Replace(resources)
}

// ClearResources 删除资源关联
func (r *SubscriptionRepository) ClearResources(sub *model.Subscription) error {
	return r.db.Model(sub).Association("Resources").Clear()
}

func (r *SubscriptionRepository) Delete(id int64) error {
	return r.db.Delete(&model.Subscription{}, id).Error
}

func (r *SubscriptionRepository) applyFilter(query *gorm.DB, f SubscriptionFilter) *gorm.DB {
	if f.ProjectID > 0 {
		query = query.Where("project_id = ?", f.ProjectID)
	}
	if f.StatusID > 0 {
		query = query.Where("status_id = ?", f.StatusID)
	}
	if f.VisibleTo > 0 {
		query = query.Where(
			"project_id IN (?) OR id IN (?)",
			r.db.Model(&model.Project{}).Select("id").Where("pi_id = ?", f.VisibleTo),
			r.db.Model(&model.SubscriptionUser{}).Select("subscription_id").Where("user_id = ?", f.VisibleTo),
		)
	}
	return query
}

// List 分页获取订阅
func (r *SubscriptionRepository) List(f SubscriptionFilter, page, pageSize int) ([]*model.Subscription, int64, error) {
	var subs []*model.Subscription
	var total int64

	query := r.applyFilter(r.db.Model(&model.Subscription{}), f)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Status").
		Preload("Project.PI").
		Preload("Resources").
		Order("id DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&subs).Error
	if err != nil {
		return nil, 0, err
	}

	return subs, total, nil
}

// ListAll 导出使用，不分页
func (r *SubscriptionRepository) ListAll(f SubscriptionFilter) ([]*model.Subscription, error) {
	var subs []*model.Subscription
	err := r.applyFilter(r.db.Model(&model.Subscription{}), f).
		Preload("Status").
		Preload("Project.PI").
		Preload("Resources").
		Preload("Attributes.Type.AttributeType").
		Preload("Attributes.Usage").
		Order("id").
		Find(&subs).Error
	return subs, err
}

// ListOverdueIDs 指定状态下结束日期早于 today 的订阅
func (r *SubscriptionRepository) ListOverdueIDs(statusID int64, today time.Time) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&model.Subscription{}).
		Where("status_id = ? AND end_date IS NOT NULL AND end_date < ?", statusID, model.DateOnly(today)).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}

// IsMember 用户是否为订阅成员（任意状态）
func (r *SubscriptionRepository) IsMember(subscriptionID, userID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.SubscriptionUser{}).
		Where("subscription_id = ? AND user_id = ?", subscriptionID, userID).
		Count(&count).Error
	return count > 0, err
}
