package dto

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token string    `json:"token"`
	User  *UserInfo `json:"user"`
}

// CreateUserRequest 创建用户（管理命令使用）
type CreateUserRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=150"`
	Email     string `json:"email,omitempty" binding:"omitempty,email"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	IsStaff   bool   `json:"is_staff"`
}

// UserInfo 用户信息（返回给前端）
type UserInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name"`
	IsStaff  bool   `json:"is_staff"`
}
