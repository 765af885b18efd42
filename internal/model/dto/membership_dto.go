package dto

// AddMemberRequest 添加订阅成员
type AddMemberRequest struct {
	UserID int64  `json:"user_id" binding:"required"`
	Status string `json:"status,omitempty" binding:"omitempty,max=64"`
}

// UpdateMemberRequest 修改成员状态
type UpdateMemberRequest struct {
	Status string `json:"status" binding:"required,max=64"`
}

// MemberItem 订阅成员
type MemberItem struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// CreateNoteRequest 添加备注
type CreateNoteRequest struct {
	Note      string `json:"note" binding:"required,max=5000"`
	IsPrivate *bool  `json:"is_private,omitempty"`
}

// NoteItem 备注
type NoteItem struct {
	ID        int64  `json:"id"`
	Kind      string `json:"kind"` // admin, user
	Author    string `json:"author"`
	Note      string `json:"note"`
	IsPrivate bool   `json:"is_private"`
	CreatedAt string `json:"created_at"`
}

// CreateAccountRequest 创建订阅账号
type CreateAccountRequest struct {
	Name string `json:"name" binding:"required,max=64"`
}

// AccountItem 订阅账号
type AccountItem struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}
