package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/alloc_server/internal/pkg/jwt"
	"github.com/qs3c/alloc_server/internal/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testJWTSecret = "test-secret-key-for-middleware"

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	return resp
}

func mustToken(t *testing.T, userID int64, secret string, hours int) string {
	token, err := jwt.GenerateToken(userID, secret, hours)
	require.NoError(t, err)
	return token
}

func TestAuth_Success(t *testing.T) {
	router := gin.New()
	router.Use(Auth(testJWTSecret))
	router.GET("/test", func(c *gin.Context) {
		userID, ok := GetUserID(c)
		assert.True(t, ok)
		assert.Equal(t, int64(123), userID)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+mustToken(t, 123, testJWTSecret, 24))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":123}`, w.Body.String())
}

func TestAuth_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		message string
	}{
		{"missing header", "", "请提供认证信息"},
		{"no bearer prefix", "some-token-without-bearer", "认证格式错误"},
		{"empty bearer", "Bearer ", "认证格式错误"},
		{"garbage token", "Bearer invalid.token.here", "认证失败"},
		{"wrong secret", "Bearer " + mustToken(t, 123, "different-secret", 24), "认证失败"},
		{"expired", "Bearer " + mustToken(t, 123, testJWTSecret, -1), "登录已过期"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			router := gin.New()
			router.Use(Auth(testJWTSecret))
			router.GET("/test", func(c *gin.Context) {
				reached = true
			})

			req := httptest.NewRequest("GET", "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			resp := parseResponse(t, w)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, response.CodeAuthFailed, resp.Code)
			assert.Equal(t, tt.message, resp.Message)
			assert.False(t, reached)
		})
	}
}

type fakeStaffChecker map[int64]bool

func (f fakeStaffChecker) IsStaff(userID int64) (bool, error) {
	staff, ok := f[userID]
	if !ok {
		return false, errors.New("user not found")
	}
	return staff, nil
}

func TestRequireStaff(t *testing.T) {
	checker := fakeStaffChecker{1: true, 2: false}

	tests := []struct {
		name     string
		userID   int64
		setUser  bool
		wantCode int
	}{
		{"staff", 1, true, response.CodeSuccess},
		{"regular user", 2, true, response.CodePermissionDenied},
		{"unknown user", 3, true, response.CodePermissionDenied},
		{"not logged in", 0, false, response.CodeAuthFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(func(c *gin.Context) {
				if tt.setUser {
					c.Set(UserIDKey, tt.userID)
				}
				c.Next()
			})
			router.Use(RequireStaff(checker))
			router.GET("/test", func(c *gin.Context) {
				response.Success(c, nil)
			})

			req := httptest.NewRequest("GET", "/test", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, parseResponse(t, w).Code)
		})
	}
}

func TestGetUserID(t *testing.T) {
	tests := []struct {
		name   string
		value  interface{}
		set    bool
		wantID int64
		wantOK bool
	}{
		{"not set", nil, false, 0, false},
		{"wrong type", "not-an-int64", true, 0, false},
		{"int64", int64(789), true, 789, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			if tt.set {
				c.Set(UserIDKey, tt.value)
			}
			id, ok := GetUserID(c)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}
