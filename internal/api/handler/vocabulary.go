package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/alloc_server/internal/model/dto"
	"github.com/qs3c/alloc_server/internal/pkg/response"
	"github.com/qs3c/alloc_server/internal/service"
)

type VocabularyHandler struct {
	vocabularyService *service.VocabularyService
	attributeService  *service.AttributeService
}

func NewVocabularyHandler(vocabularyService *service.VocabularyService, attributeService *service.AttributeService) *VocabularyHandler {
	return &VocabularyHandler{
		vocabularyService: vocabularyService,
		attributeService:  attributeService,
	}
}

// ListStatuses 订阅状态列表
// GET /api/v1/statuses
func (h *VocabularyHandler) ListStatuses(c *gin.Context) {
	items, err := h.vocabularyService.ListStatuses()
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, items)
}

// ListAttributeTypes 订阅属性类型列表
// GET /api/v1/attribute-types
func (h *VocabularyHandler) ListAttributeTypes(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	items, err := h.attributeService.ListAttributeTypes(userID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, items)
}

// CreateAttributeType 新增订阅属性类型
// POST /api/v1/attribute-types
func (h *VocabularyHandler) CreateAttributeType(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateAttributeTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.attributeService.CreateAttributeType(userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "创建成功", item)
}
