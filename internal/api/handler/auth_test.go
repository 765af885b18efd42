package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/alloc_server/internal/pkg/response"
	"github.com/qs3c/alloc_server/internal/testutil"
)

func TestAuthHandler_Login(t *testing.T) {
	svcs, ctx, cleanup := setupServices(t)
	defer cleanup()

	inactive := testutil.TestUser(t, ctx.DB, testutil.WithInactive())

	router := gin.New()
	router.POST("/auth/login", NewAuthHandler(svcs.Auth).Login)

	w := performRequest(router, "POST", "/auth/login", map[string]string{
		"username": ctx.PI.Username,
		"password": testutil.TestPassword,
	})
	resp := parseResponse(t, w)
	assert.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, response.CodeSuccess, resp.Code)
	data := dataMap(t, resp)
	assert.NotEmpty(t, data["token"])

	tests := []struct {
		name     string
		body     map[string]string
		wantCode int
	}{
		{"wrong password", map[string]string{"username": ctx.PI.Username, "password": "nope"}, response.CodeAuthFailed},
		{"inactive", map[string]string{"username": inactive.Username, "password": testutil.TestPassword}, response.CodeAuthFailed},
		{"missing password", map[string]string{"username": ctx.PI.Username}, response.CodeParamError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, "POST", "/auth/login", tt.body)
			assert.Equal(t, tt.wantCode, parseResponse(t, w).Code)
		})
	}
}
