package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/alloc_server/internal/model/dto"
	"github.com/qs3c/alloc_server/internal/pkg/response"
	"github.com/qs3c/alloc_server/internal/service"
)

type AccountHandler struct {
	accountService *service.AccountService
}

func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

// List 当前用户的账号
// GET /api/v1/accounts
func (h *AccountHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	items, err := h.accountService.ListByUser(userID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, items)
}

// Create 创建账号
// POST /api/v1/accounts
func (h *AccountHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.accountService.Create(userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "创建成功", item)
}

// Delete 删除账号
// DELETE /api/v1/accounts/:id
func (h *AccountHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "无效的账号ID")
	if !ok {
		return
	}

	if err := h.accountService.Delete(userID, id); err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "删除成功", nil)
}
