package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/alloc_server/internal/pkg/jwt"
	"github.com/qs3c/alloc_server/internal/pkg/response"
)

const (
	UserIDKey = "userID"
)

// StaffChecker 判断用户是否为管理员
type StaffChecker interface {
	IsStaff(userID int64) (bool, error)
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if header == "" || token == header || token == "" {
		return "", false
	}
	return token, true
}

// Auth JWT 认证中间件
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			response.AuthError(c, "请提供认证信息")
			c.Abort()
			return
		}

		token, ok := bearerToken(c)
		if !ok {
			response.AuthError(c, "认证格式错误")
			c.Abort()
			return
		}

		claims, err := jwt.ParseToken(token, jwtSecret)
		if err != nil {
			msg := "认证失败"
			if errors.Is(err, jwt.ErrExpiredToken) {
				msg = "登录已过期"
			}
			response.AuthError(c, msg)
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}

// RequireStaff 仅管理员可访问，需要放在 Auth 之后
func RequireStaff(checker StaffChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.AuthError(c, "请先登录")
			c.Abort()
			return
		}

		staff, err := checker.IsStaff(userID)
		if err != nil || !staff {
			response.PermissionError(c, "需要管理员权限")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID 从上下文获取用户 ID
func GetUserID(c *gin.Context) (int64, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(int64)
	return id, ok
}
