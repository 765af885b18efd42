package repository

import (
	"gorm.io/gorm"
)

// Stores 同一个连接（或事务）上的全部仓储
type Stores struct {
	db *gorm.DB

	Users          *UserRepository
	Projects       *ProjectRepository
	Resources      *ResourceRepository
	Vocabulary     *VocabularyRepository
	AttributeTypes *AttributeTypeRepository
	Subscriptions  *SubscriptionRepository
	Attributes     *AttributeRepository
	Members        *MembershipRepository
	Notes          *NoteRepository
	Accounts       *AccountRepository
	History        *HistoryRepository
}

func NewStores(db *gorm.DB) *Stores {
	return &Stores{
		db:             db,
		Users:          NewUserRepository(db),
		Projects:       NewProjectRepository(db),
		Resources:      NewResourceRepository(db),
		Vocabulary:     NewVocabularyRepository(db),
		AttributeTypes: NewAttributeTypeRepository(db),
		Subscriptions:  NewSubscriptionRepository(db),
		Attributes:     NewAttributeRepository(db),
		Members:        NewMembershipRepository(db),
		Notes:          NewNoteRepository(db),
		Accounts:       NewAccountRepository(db),
		History:        NewHistoryRepository(db),
	}
}

func (s *Stores) DB() *gorm.DB {
	return s.db
}

// Transaction 在事务中执行 fn，fn 返回错误时回滚
func (s *Stores) Transaction(fn func(tx *Stores) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewStores(tx))
	})
}
