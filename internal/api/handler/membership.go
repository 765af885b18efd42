package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/alloc_server/internal/model/dto"
	"github.com/qs3c/alloc_server/internal/pkg/response"
	"github.com/qs3c/alloc_server/internal/service"
)

type MembershipHandler struct {
	membershipService *service.MembershipService
}

func NewMembershipHandler(membershipService *service.MembershipService) *MembershipHandler {
	return &MembershipHandler{
		membershipService: membershipService,
	}
}

// List 订阅成员列表
// GET /api/v1/subscriptions/:id/users
func (h *MembershipHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	subID, ok := parseID(c, "id", "无效的订阅ID")
	if !ok {
		return
	}

	items, err := h.membershipService.ListUsers(userID, subID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, items)
}

// Add 添加成员
// POST /api/v1/subscriptions/:id/users
func (h *MembershipHandler) Add(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	subID, ok := parseID(c, "id", "无效的订阅ID")
	if !ok {
		return
	}

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.membershipService.AddUser(userID, subID, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "添加成功", item)
}

// Update 修改成员状态
// PUT /api/v1/subscriptions/:id/users/:user_id
func (h *MembershipHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	subID, ok := parseID(c, "id", "无效的订阅ID")
	if !ok {
		return
	}
	memberID, ok := parseID(c, "user_id", "无效的用户ID")
	if !ok {
		return
	}

	var req dto.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.membershipService.UpdateUserStatus(userID, subID, memberID, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "更新成功", item)
}

// Remove 移除成员
// DELETE /api/v1/subscriptions/:id/users/:user_id
func (h *MembershipHandler) Remove(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	subID, ok := parseID(c, "id", "无效的订阅ID")
	if !ok {
		return
	}
	memberID, ok := parseID(c, "user_id", "无效的用户ID")
	if !ok {
		return
	}

	if err := h.membershipService.RemoveUser(userID, subID, memberID); err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "移除成功", nil)
}
