package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/alloc_server/internal/model/dto"
	"github.com/qs3c/alloc_server/internal/pkg/response"
	"github.com/qs3c/alloc_server/internal/service"
)

type NoteHandler struct {
	noteService *service.NoteService
}

func NewNoteHandler(noteService *service.NoteService) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
	}
}

// List 订阅备注
// GET /api/v1/subscriptions/:id/notes
func (h *NoteHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	subID, ok := parseID(c, "id", "无效的订阅ID")
	if !ok {
		return
	}

	items, err := h.noteService.ListNotes(userID, subID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, items)
}

// Create 添加用户备注
// POST /api/v1/subscriptions/:id/notes
func (h *NoteHandler) Create(c *gin.Context) {
	h.create(c, false)
}

// CreateAdmin 添加管理员备注
// POST /api/v1/subscriptions/:id/admin-notes
func (h *NoteHandler) CreateAdmin(c *gin.Context) {
	h.create(c, true)
}

func (h *NoteHandler) create(c *gin.Context, admin bool) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	subID, ok := parseID(c, "id", "无效的订阅ID")
	if !ok {
		return
	}

	var req dto.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	var (
		item *dto.NoteItem
		err  error
	)
	if admin {
		item, err = h.noteService.AddAdminNote(userID, subID, &req)
	} else {
		item, err = h.noteService.AddUserNote(userID, subID, &req)
	}
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "添加成功", item)
}
