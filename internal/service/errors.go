package service

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound          = errors.New("用户不存在")
	ErrPermissionDenied      = errors.New("无权操作此订阅")
	ErrSubscriptionNotFound  = errors.New("订阅不存在")
	ErrProjectNotFound       = errors.New("项目不存在")
	ErrResourceNotFound      = errors.New("资源不存在")
	ErrStatusNotFound        = errors.New("订阅状态不存在")
	ErrUserStatusNotFound    = errors.New("成员状态不存在")
	ErrAttributeNotFound     = errors.New("订阅属性不存在")
	ErrAttributeTypeNotFound = errors.New("属性类型不存在")
	ErrAttributeTypeExists   = errors.New("属性类型已存在")
	ErrAttributeKindNotFound = errors.New("属性值类型不存在")
	ErrUsageNotTracked       = errors.New("该属性不记录用量")
	ErrMemberExists          = errors.New("用户已是订阅成员")
	ErrMemberNotFound        = errors.New("订阅成员不存在")
	ErrAccountExists         = errors.New("账号名已被使用")
	ErrAccountNotFound       = errors.New("账号不存在")
)

// notFound 把 gorm.ErrRecordNotFound 转为业务错误
func notFound(err, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}
