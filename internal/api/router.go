package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/qs3c/alloc_server/config"
	"github.com/qs3c/alloc_server/internal/api/handler"
	"github.com/qs3c/alloc_server/internal/api/middleware"
	"github.com/qs3c/alloc_server/internal/pkg/response"
)

// Handlers 路由使用的全部 handler
type Handlers struct {
	Auth         *handler.AuthHandler
	Vocabulary   *handler.VocabularyHandler
	Subscription *handler.SubscriptionHandler
	Attribute    *handler.AttributeHandler
	Membership   *handler.MembershipHandler
	Note         *handler.NoteHandler
	Account      *handler.AccountHandler
}

type Router struct {
	handlers Handlers
	staff    middleware.StaffChecker
	cfg      *config.Config
	logger   *zap.Logger
}

func NewRouter(handlers Handlers, staff middleware.StaffChecker, cfg *config.Config, logger *zap.Logger) *Router {
	return &Router{
		handlers: handlers,
		staff:    staff,
		cfg:      cfg,
		logger:   logger,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger(r.logger))
	engine.Use(middleware.CORS(r.cfg.CORS))

	engine.GET("/health", func(c *gin.Context) {
		response.Success(c, gin.H{"status": "ok"})
	})
	if r.cfg.Metrics.Enabled {
		engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	h := r.handlers
	api := engine.Group("/api/v1")
	{
		// 公开接口 - 认证
		api.POST("/auth/login", h.Auth.Login)

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			authenticated.GET("/statuses", h.Vocabulary.ListStatuses)
			authenticated.GET("/attribute-types", h.Vocabulary.ListAttributeTypes)

			subs := authenticated.Group("/subscriptions")
			{
				subs.GET("", h.Subscription.List)
				subs.POST("", h.Subscription.Create)
				subs.GET("/:id", h.Subscription.Get)
				subs.PUT("/:id", h.Subscription.Update)
				subs.DELETE("/:id", h.Subscription.Delete)
				subs.GET("/:id/history", h.Subscription.History)

				subs.GET("/:id/attributes", h.Attribute.List)
				subs.POST("/:id/attributes", h.Attribute.Create)

				subs.GET("/:id/users", h.Membership.List)
				subs.POST("/:id/users", h.Membership.Add)
				subs.PUT("/:id/users/:user_id", h.Membership.Update)
				subs.DELETE("/:id/users/:user_id", h.Membership.Remove)

				subs.GET("/:id/notes", h.Note.List)
				subs.POST("/:id/notes", h.Note.Create)
			}

			authenticated.PUT("/attributes/:id", h.Attribute.Update)
			authenticated.DELETE("/attributes/:id", h.Attribute.Delete)

			accounts := authenticated.Group("/accounts")
			{
				accounts.GET("", h.Account.List)
				accounts.POST("", h.Account.Create)
				accounts.DELETE("/:id", h.Account.Delete)
			}

			// 管理员接口
			staff := authenticated.Group("")
			staff.Use(middleware.RequireStaff(r.staff))
			{
				staff.POST("/attribute-types", h.Vocabulary.CreateAttributeType)
				staff.GET("/subscriptions/export", h.Subscription.Export)
				staff.PUT("/subscriptions/:id/usage", h.Subscription.SetUsage)
				staff.POST("/subscriptions/:id/admin-notes", h.Note.CreateAdmin)
			}
		}
	}

	return engine
}
