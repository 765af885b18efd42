package handler

import (
	"fmt"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/alloc_server/internal/pkg/response"
)

func accountRouter(h *AccountHandler, userID int64) *gin.Engine {
	router := gin.New()
	router.Use(mockAuth(userID))
	router.GET("/accounts", h.List)
	router.POST("/accounts", h.Create)
	router.DELETE("/accounts/:id", h.Delete)
	return router
}

func TestAccountHandler(t *testing.T) {
	svcs, ctx, cleanup := setupServices(t)
	defer cleanup()

	router := accountRouter(NewAccountHandler(svcs.Account), ctx.PI.ID)

	w := performRequest(router, "POST", "/accounts", map[string]interface{}{"name": "lab-a"})
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)
	id := int64(dataMap(t, resp)["id"].(float64))

	w = performRequest(accountRouter(NewAccountHandler(svcs.Account), ctx.Staff.ID), "POST", "/accounts", map[string]interface{}{"name": "lab-a"})
	assert.Equal(t, response.CodeConflict, parseResponse(t, w).Code)

	w = performRequest(router, "GET", "/accounts", nil)
	resp = parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)
	assert.Len(t, resp.Data, 1)

	w = performRequest(router, "DELETE", fmt.Sprintf("/accounts/%d", id), nil)
	assert.Equal(t, response.CodeSuccess, parseResponse(t, w).Code)

	w = performRequest(router, "DELETE", fmt.Sprintf("/accounts/%d", id), nil)
	assert.Equal(t, response.CodeResourceNotFound, parseResponse(t, w).Code)
}
