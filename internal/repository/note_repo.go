package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qs3c/alloc_server/internal/model"
)

type NoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) CreateAdminNote(note *model.SubscriptionAdminNote) error {
	return r.db.Omit(clause.Associations).Create(note).Error
}

func (r *NoteRepository) CreateUserNote(note *model.SubscriptionUserNote) error {
	return r.db.Omit(clause.Associations).Create(note).Error
}

func (r *NoteRepository) ListAdminNotes(subscriptionID int64) ([]*model.SubscriptionAdminNote, error) {
	var notes []*model.SubscriptionAdminNote
	err := r.db.Preload("Author").
		Where("subscription_id = ?", subscriptionID).
		Order("created_at, id").
		Find(&notes).Error
	return notes, err
}

// ListUserNotes includePrivate 为 false 时只返回公开备注
func (r *NoteRepository) ListUserNotes(subscriptionID int64, includePrivate bool) ([]*model.SubscriptionUserNote, error) {
	var notes []*model.SubscriptionUserNote
	query := r.db.Preload("Author").Where("subscription_id = ?", subscriptionID)
	if !includePrivate {
		query = query.Where("is_private = ?", false)
	}
	err := query.Order("created_at, id").Find(&notes).Error
	return notes, err
}

// DeleteBySubscription 删除订阅的全部备注
func (r *NoteRepository) DeleteBySubscription(subscriptionID int64) error {
	if err := r.db.Where("subscription_id = ?", subscriptionID).Delete(&model.SubscriptionAdminNote{}).Error; err != nil {
		return err
	}
	return r.db.Where("subscription_id = ?", subscriptionID).Delete(&model.SubscriptionUserNote{}).Error
}
