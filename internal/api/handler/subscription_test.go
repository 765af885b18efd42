package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/alloc_server/internal/model"
	"github.com/qs3c/alloc_server/internal/pkg/response"
	"github.com/qs3c/alloc_server/internal/testutil"
)

func subscriptionRouter(h *SubscriptionHandler, userID int64) *gin.Engine {
	router := gin.New()
	router.Use(mockAuth(userID))
	router.GET("/subscriptions", h.List)
	router.POST("/subscriptions", h.Create)
	router.GET("/subscriptions/export", h.Export)
	router.GET("/subscriptions/:id", h.Get)
	router.PUT("/subscriptions/:id", h.Update)
	router.DELETE("/subscriptions/:id", h.Delete)
	router.GET("/subscriptions/:id/history", h.History)
	router.PUT("/subscriptions/:id/usage", h.SetUsage)
	return router
}

func TestSubscriptionHandler_Create(t *testing.T) {
	svcs, ctx, cleanup := setupServices(t)
	defer cleanup()

	router := subscriptionRouter(NewSubscriptionHandler(svcs.Subscription), ctx.PI.ID)

	w := performRequest(router, "POST", "/subscriptions", map[string]interface{}{
		"project_id":    ctx.Project.ID,
		"resource_ids":  []int64{ctx.Cluster.ID},
		"status":        model.StatusNew,
		"justification": "need cores",
	})
	resp := parseResponse(t, w)
	assert.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, response.CodeSuccess, resp.Code)
	data := dataMap(t, resp)
	assert.Equal(t, "cluster", data["resources_as_string"])
	assert.Equal(t, model.StatusNew, data["status"])
}

func TestSubscriptionHandler_Create_Errors(t *testing.T) {
	svcs, ctx, cleanup := setupServices(t)
	defer cleanup()

	router := subscriptionRouter(NewSubscriptionHandler(svcs.Subscription), ctx.PI.ID)

	tests := []struct {
		name     string
		body     map[string]interface{}
		wantCode int
	}{
		{
			name:     "missing fields",
			body:     map[string]interface{}{"project_id": ctx.Project.ID},
			wantCode: response.CodeParamError,
		},
		{
			name: "bad date format",
			body: map[string]interface{}{
				"project_id": ctx.Project.ID, "resource_ids": []int64{ctx.Cluster.ID},
				"status": model.StatusNew, "justification": "x", "start_date": "01/15/2024",
			},
			wantCode: response.CodeParamError,
		},
		{
			name: "active without dates",
			body: map[string]interface{}{
				"project_id": ctx.Project.ID, "resource_ids": []int64{ctx.Cluster.ID},
				"status": model.StatusActive, "justification": "x",
			},
			wantCode: response.CodeValidation,
		},
		{
			name: "unknown status",
			body: map[string]interface{}{
				"project_id": ctx.Project.ID, "resource_ids": []int64{ctx.Cluster.ID},
				"status": "Bogus", "justification": "x",
			},
			wantCode: response.CodeParamError,
		},
		{
			name: "unknown project",
			body: map[string]interface{}{
				"project_id": 9999, "resource_ids": []int64{ctx.Cluster.ID},
				"status": model.StatusNew, "justification": "x",
			},
			wantCode: response.CodeResourceNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, "POST", "/subscriptions", tt.body)
			assert.Equal(t, tt.wantCode, parseResponse(t, w).Code)
		})
	}

	w := performRequest(router, "POST", "/subscriptions", map[string]interface{}{
		"project_id": ctx.Project.ID, "resource_ids": []int64{ctx.Cluster.ID},
		"status": model.StatusActive, "justification": "x", "start_date": "2024-01-01",
	})
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeValidation, resp.Code)
	assert.Equal(t, "You have to set the end date.", resp.Message)
	assert.Equal(t, "end_date", dataMap(t, resp)["field"])
}

func TestSubscriptionHandler_GetUpdateDelete(t *testing.T) {
	svcs, ctx, cleanup := setupServices(t)
	defer cleanup()

	sub := testutil.TestSubscription(t, ctx.DB, ctx.Project.ID, model.StatusNew, testutil.WithResources(ctx.Cluster))
	router := subscriptionRouter(NewSubscriptionHandler(svcs.Subscription), ctx.PI.ID)
	path := fmt.Sprintf("/subscriptions/%d", sub.ID)

	w := performRequest(router, "GET", path, nil)
	assert.Equal(t, response.CodeSuccess, parseResponse(t, w).Code)

	w = performRequest(router, "GET", "/subscriptions/abc", nil)
	assert.Equal(t, response.CodeParamError, parseResponse(t, w).Code)

	w = performRequest(router, "GET", "/subscriptions/9999", nil)
	assert.Equal(t, response.CodeResourceNotFound, parseResponse(t, w).Code)

	w = performRequest(router, "PUT", path, map[string]interface{}{"quantity": 3})
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)
	assert.Equal(t, float64(3), dataMap(t, resp)["quantity"])

	w = performRequest(router, "GET", path+"/history", nil)
	resp = parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)
	assert.Len(t, resp.Data, 1)

	outsider := testutil.TestUser(t, ctx.DB)
	w = performRequest(subscriptionRouter(NewSubscriptionHandler(svcs.Subscription), outsider.ID), "DELETE", path, nil)
	assert.Equal(t, response.CodePermissionDenied, parseResponse(t, w).Code)

	w = performRequest(router, "DELETE", path, nil)
	assert.Equal(t, response.CodeSuccess, parseResponse(t, w).Code)
}

func TestSubscriptionHandler_List(t *testing.T) {
	svcs, ctx, cleanup := setupServices(t)
	defer cleanup()

	testutil.TestSubscription(t, ctx.DB, ctx.Project.ID, model.StatusNew)
	testutil.TestSubscription(t, ctx.DB, ctx.Project.ID, model.StatusNew)
	router := subscriptionRouter(NewSubscriptionHandler(svcs.Subscription), ctx.Staff.ID)

	w := performRequest(router, "GET", fmt.Sprintf("/subscriptions?project_id=%d&status=New&page_size=1", ctx.Project.ID), nil)
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)
	data := dataMap(t, resp)
	assert.Equal(t, float64(2), data["total"])
	assert.Len(t, data["items"], 1)

	w = performRequest(router, "GET", "/subscriptions?project_id=abc", nil)
	assert.Equal(t, response.CodeParamError, parseResponse(t, w).Code)
}

func TestSubscriptionHandler_SetUsage(t *testing.T) {
	svcs, ctx, cleanup := setupServices(t)
	defer cleanup()

	sub := testutil.TestSubscription(t, ctx.DB, ctx.Project.ID, model.StatusNew)
	cores, err := ctx.Stores.AttributeTypes.GetByName("Core Usage (Hours)")
	require.NoError(t, err)
	testutil.TestAttribute(t, ctx.DB, sub.ID, cores, "100")

	router := subscriptionRouter(NewSubscriptionHandler(svcs.Subscription), ctx.Staff.ID)
	path := fmt.Sprintf("/subscriptions/%d/usage", sub.ID)

	w := performRequest(router, "PUT", path, map[string]interface{}{"attribute_name": "Core Usage (Hours)", "value": 25})
	require.Equal(t, response.CodeSuccess, parseResponse(t, w).Code)

	lines, err := svcs.Subscription.Information(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Core Usage (Hours): 25.0/100 (25.0 %)"}, lines)

	w = performRequest(router, "PUT", path, map[string]interface{}{"attribute_name": "slurm_account_name", "value": 1})
	assert.Equal(t, response.CodeResourceNotFound, parseResponse(t, w).Code)
}

func TestSubscriptionHandler_Export(t *testing.T) {
	svcs, ctx, cleanup := setupServices(t)
	defer cleanup()

	testutil.TestSubscription(t, ctx.DB, ctx.Project.ID, model.StatusNew, testutil.WithResources(ctx.Cluster))
	router := subscriptionRouter(NewSubscriptionHandler(svcs.Subscription), ctx.Staff.ID)

	w := performRequest(router, "GET", "/subscriptions/export", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	assert.NotZero(t, w.Body.Len())

	w = performRequest(router, "GET", "/subscriptions/export?status=Bogus", nil)
	assert.Equal(t, response.CodeParamError, parseResponse(t, w).Code)
}
