package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/alloc_server/internal/model/dto"
	"github.com/qs3c/alloc_server/internal/pkg/response"
	"github.com/qs3c/alloc_server/internal/service"
)

type AttributeHandler struct {
	attributeService *service.AttributeService
}

func NewAttributeHandler(attributeService *service.AttributeService) *AttributeHandler {
	return &AttributeHandler{
		attributeService: attributeService,
	}
}

// List 订阅属性列表
// GET /api/v1/subscriptions/:id/attributes
func (h *AttributeHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	subID, ok := parseID(c, "id", "无效的订阅ID")
	if !ok {
		return
	}

	items, err := h.attributeService.ListAttributes(userID, subID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, items)
}

// Create 添加订阅属性
// POST /api/v1/subscriptions/:id/attributes
func (h *AttributeHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	subID, ok := parseID(c, "id", "无效的订阅ID")
	if !ok {
		return
	}

	var req dto.CreateAttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.attributeService.AddAttribute(userID, subID, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "添加成功", item)
}

// Update 修改属性值
// PUT /api/v1/attributes/:id
func (h *AttributeHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "无效的属性ID")
	if !ok {
		return
	}

	var req dto.UpdateAttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.attributeService.UpdateAttribute(userID, id, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "更新成功", item)
}

// Delete 删除属性
// DELETE /api/v1/attributes/:id
func (h *AttributeHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "无效的属性ID")
	if !ok {
		return
	}

	if err := h.attributeService.DeleteAttribute(userID, id); err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "删除成功", nil)
}
