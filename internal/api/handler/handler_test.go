package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/qs3c/alloc_server/config"
	"github.com/qs3c/alloc_server/internal/api/middleware"
	"github.com/qs3c/alloc_server/internal/model"
	"github.com/qs3c/alloc_server/internal/pkg/response"
	"github.com/qs3c/alloc_server/internal/pkg/validate"
	"github.com/qs3c/alloc_server/internal/repository"
	"github.com/qs3c/alloc_server/internal/service"
	"github.com/qs3c/alloc_server/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := validate.Register(); err != nil {
		panic(err)
	}
}

type testContext struct {
	DB      *gorm.DB
	Stores  *repository.Stores
	Staff   *model.User
	PI      *model.User
	Project *model.Project
	Cluster *model.Resource
}

type testServices struct {
	Auth         *service.AuthService
	Subscription *service.SubscriptionService
	Attribute    *service.AttributeService
	Membership   *service.MembershipService
	Note         *service.NoteService
	Account      *service.AccountService
	Vocabulary   *service.VocabularyService
}

func setupServices(t *testing.T) (*testServices, *testContext, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	stores := repository.NewStores(db)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "handler-test-secret", ExpireHours: 1}}
	logger := zap.NewNop()

	svcs := &testServices{
		Auth:         service.NewAuthService(stores.Users, cfg),
		Subscription: service.NewSubscriptionService(stores, nil, cfg, logger),
		Attribute:    service.NewAttributeService(stores, logger),
		Membership:   service.NewMembershipService(stores, logger),
		Note:         service.NewNoteService(stores),
		Account:      service.NewAccountService(stores),
		Vocabulary:   service.NewVocabularyService(stores, logger),
	}
	_, err := svcs.Vocabulary.SeedDefaults()
	require.NoError(t, err)

	pi := testutil.TestUser(t, db)
	ctx := &testContext{
		DB:      db,
		Stores:  stores,
		Staff:   testutil.TestUser(t, db, testutil.WithStaff()),
		PI:      pi,
		Project: testutil.TestProject(t, db, pi.ID),
		Cluster: testutil.TestResource(t, db, "cluster", true),
	}

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}
	return svcs, ctx, cleanup
}

// mockAuth 模拟认证中间件
func mockAuth(userID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	}
}

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	return resp
}

func dataMap(t *testing.T, resp response.Response) map[string]interface{} {
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "unexpected data %#v", resp.Data)
	return data
}
