package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/alloc_server/internal/model/dto"
	"github.com/qs3c/alloc_server/internal/pkg/response"
	"github.com/qs3c/alloc_server/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
	}
}

// List 订阅列表
// GET /api/v1/subscriptions?project_id=&status=&page=&page_size=
func (h *SubscriptionHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var projectID int64
	if raw := c.Query("project_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.ParamError(c, "无效的项目ID")
			return
		}
		projectID = id
	}
	page, pageSize := pagination(c)

	items, total, err := h.subscriptionService.List(userID, projectID, c.Query("status"), page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessPage(c, total, page, pageSize, items)
}

// Create 创建订阅
// POST /api/v1/subscriptions
func (h *SubscriptionHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	detail, err := h.subscriptionService.Create(userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "创建成功", detail)
}

// Get 订阅详情
// GET /api/v1/subscriptions/:id
func (h *SubscriptionHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "无效的订阅ID")
	if !ok {
		return
	}

	detail, err := h.subscriptionService.Get(userID, id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, detail)
}

// Update 修改订阅
// PUT /api/v1/subscriptions/:id
func (h *SubscriptionHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "无效的订阅ID")
	if !ok {
		return
	}

	var req dto.UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	detail, err := h.subscriptionService.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "更新成功", detail)
}

// Delete 删除订阅
// DELETE /api/v1/subscriptions/:id
func (h *SubscriptionHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "无效的订阅ID")
	if !ok {
		return
	}

	if err := h.subscriptionService.Delete(userID, id); err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "删除成功", nil)
}

// History 订阅变更历史
// GET /api/v1/subscriptions/:id/history
func (h *SubscriptionHandler) History(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "无效的订阅ID")
	if !ok {
		return
	}

	items, err := h.subscriptionService.History(userID, id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, items)
}

// SetUsage 按属性名称更新用量
// PUT /api/v1/subscriptions/:id/usage
func (h *SubscriptionHandler) SetUsage(c *gin.Context) {
	id, ok := parseID(c, "id", "无效的订阅ID")
	if !ok {
		return
	}

	var req dto.SetUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.subscriptionService.SetUsage(id, req.AttributeName, req.Value); err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "更新成功", nil)
}

// Export 导出订阅
// GET /api/v1/subscriptions/export?project_id=&status=
func (h *SubscriptionHandler) Export(c *gin.Context) {
	var projectID int64
	if raw := c.Query("project_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.ParamError(c, "无效的项目ID")
			return
		}
		projectID = id
	}

	var buf bytes.Buffer
	if _, err := h.subscriptionService.Export(&buf, projectID, c.Query("status")); err != nil {
		handleError(c, err)
		return
	}

	filename := fmt.Sprintf("subscriptions-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
