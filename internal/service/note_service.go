package service

import (
	"sort"

	"github.com/qs3c/alloc_server/internal/model"
	"github.com/qs3c/alloc_server/internal/model/dto"
	"github.com/qs3c/alloc_server/internal/repository"
)

type NoteService struct {
	stores *repository.Stores
}

func NewNoteService(stores *repository.Stores) *NoteService {
	return &NoteService{stores: stores}
}

func authorName(u *model.User) string {
	if u == nil {
		return ""
	}
	return u.Username
}

// AddAdminNote 管理员备注
func (s *NoteService) AddAdminNote(actorID, subscriptionID int64, req *dto.CreateNoteRequest) (*dto.NoteItem, error) {
	actor, _, err := authorize(s.stores, actorID, subscriptionID, false)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff {
		return nil, ErrPermissionDenied
	}

	note := &model.SubscriptionAdminNote{
		SubscriptionID: subscriptionID,
		AuthorID:       actor.ID,
		Note:           req.Note,
	}
	if err := s.stores.Notes.CreateAdminNote(note); err != nil {
		return nil, err
	}
	return &dto.NoteItem{
		ID:        note.ID,
		Kind:      "admin",
		Author:    actor.Username,
		Note:      note.Note,
		IsPrivate: true,
		CreatedAt: formatTime(note.CreatedAt),
	}, nil
}

// AddUserNote 用户备注，可见订阅的用户都可以添加
func (s *NoteService) AddUserNote(actorID, subscriptionID int64, req *dto.CreateNoteRequest) (*dto.NoteItem, error) {
	actor, _, err := authorize(s.stores, actorID, subscriptionID, false)
	if err != nil {
		return nil, err
	}

	note := &model.SubscriptionUserNote{
		SubscriptionID: subscriptionID,
		AuthorID:       actor.ID,
		Note:           req.Note,
	}
	if req.IsPrivate != nil {
		note.IsPrivate = *req.IsPrivate
	}
	if err := s.stores.Notes.CreateUserNote(note); err != nil {
		return nil, err
	}
	return &dto.NoteItem{
		ID:        note.ID,
		Kind:      "user",
		Author:    actor.Username,
		Note:      note.Note,
		IsPrivate: note.IsPrivate,
		CreatedAt: formatTime(note.CreatedAt),
	}, nil
}

// ListNotes 非管理员只能看到公开的用户备注
func (s *NoteService) ListNotes(actorID, subscriptionID int64) ([]*dto.NoteItem, error) {
	actor, _, err := authorize(s.stores, actorID, subscriptionID, false)
	if err != nil {
		return nil, err
	}

	userNotes, err := s.stores.Notes.ListUserNotes(subscriptionID, actor.IsStaff)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.NoteItem, 0, len(userNotes))
	created := make(map[*dto.NoteItem]int64)
	for _, n := range userNotes {
		item := &dto.NoteItem{
			ID:        n.ID,
			Kind:      "user",
			Author:    authorName(n.Author),
			Note:      n.Note,
			IsPrivate: n.IsPrivate,
			CreatedAt: formatTime(n.CreatedAt),
		}
		created[item] = n.CreatedAt.UnixNano()
		items = append(items, item)
	}

	if actor.IsStaff {
		adminNotes, err := s.stores.Notes.ListAdminNotes(subscriptionID)
		if err != nil {
			return nil, err
		}
		for _, n := range adminNotes {
			item := &dto.NoteItem{
				ID:        n.ID,
				Kind:      "admin",
				Author:    authorName(n.Author),
				Note:      n.Note,
				IsPrivate: true,
				CreatedAt: formatTime(n.CreatedAt),
			}
			created[item] = n.CreatedAt.UnixNano()
			items = append(items, item)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return created[items[i]] < created[items[j]]
	})
	return items, nil
}
