package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/alloc_server/internal/api/middleware"
	"github.com/qs3c/alloc_server/internal/model"
	"github.com/qs3c/alloc_server/internal/pkg/response"
	"github.com/qs3c/alloc_server/internal/service"
)

// handleError 把 service 返回的错误转换为统一响应
func handleError(c *gin.Context, err error) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		response.ValidationError(c, verr.Field, verr.Message)
		return
	}

	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		response.PermissionError(c, err.Error())
	case errors.Is(err, service.ErrSubscriptionNotFound),
		errors.Is(err, service.ErrProjectNotFound),
		errors.Is(err, service.ErrResourceNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrAttributeNotFound),
		errors.Is(err, service.ErrAttributeTypeNotFound),
		errors.Is(err, service.ErrMemberNotFound),
		errors.Is(err, service.ErrAccountNotFound):
		response.NotFoundError(c, err.Error())
	case errors.Is(err, service.ErrAttributeTypeExists),
		errors.Is(err, service.ErrMemberExists),
		errors.Is(err, service.ErrAccountExists):
		response.ConflictError(c, err.Error())
	case errors.Is(err, service.ErrStatusNotFound),
		errors.Is(err, service.ErrUserStatusNotFound),
		errors.Is(err, service.ErrAttributeKindNotFound),
		errors.Is(err, service.ErrUsageNotTracked):
		response.ParamError(c, err.Error())
	default:
		_ = c.Error(err)
		response.ServerError(c, "")
	}
}

func parseID(c *gin.Context, name, message string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.ParamError(c, message)
		return 0, false
	}
	return id, true
}

func currentUser(c *gin.Context) (int64, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
	}
	return userID, ok
}

func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
