package app

import (
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/qs3c/alloc_server/config"
	"github.com/qs3c/alloc_server/internal/database"
	"github.com/qs3c/alloc_server/internal/hook"
	"github.com/qs3c/alloc_server/internal/pkg/email"
	"github.com/qs3c/alloc_server/internal/pkg/pubsub"
	"github.com/qs3c/alloc_server/internal/repository"
	"github.com/qs3c/alloc_server/internal/service"
)

// App 进程共享的依赖
type App struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *gorm.DB
	Redis  *redis.Client
	Stores *repository.Stores

	Dispatcher   *hook.Dispatcher
	Auth         *service.AuthService
	Subscription *service.SubscriptionService
	Attribute    *service.AttributeService
	Membership   *service.MembershipService
	Note         *service.NoteService
	Account      *service.AccountService
	Vocabulary   *service.VocabularyService
}

// New 连接数据库与 Redis，解析过期回调并创建各 service。
// redis.host 为空时不连接 Redis，依赖 Redis 的回调不会注册。
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	db, err := database.Open(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	logger.Info("database connected", zap.String("driver", cfg.Database.Driver))

	a := &App{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Stores: repository.NewStores(db),
	}

	var publisher hook.Publisher
	if cfg.Redis.Host != "" {
		a.Redis, err = database.NewRedis(&cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		publisher = pubsub.NewPublisher(a.Redis)
		logger.Info("redis connected")
	}

	var mailer hook.Mailer
	if cfg.Email.SMTPHost != "" {
		mailer = email.NewService(&cfg.Email)
	}

	registry := hook.NewRegistry()
	if err := hook.RegisterBuiltins(registry, publisher, mailer); err != nil {
		return nil, err
	}
	a.Dispatcher, err = hook.NewDispatcher(registry, cfg.Subscription.FuncsOnExpire, logger)
	if err != nil {
		return nil, fmt.Errorf("resolve funcs_on_expire (available: %v): %w", registry.Names(), err)
	}
	logger.Info("expire hooks resolved", zap.Strings("hooks", a.Dispatcher.Names()))

	a.Auth = service.NewAuthService(a.Stores.Users, cfg)
	a.Subscription = service.NewSubscriptionService(a.Stores, a.Dispatcher, cfg, logger)
	a.Attribute = service.NewAttributeService(a.Stores, logger)
	a.Membership = service.NewMembershipService(a.Stores, logger)
	a.Note = service.NewNoteService(a.Stores)
	a.Account = service.NewAccountService(a.Stores)
	a.Vocabulary = service.NewVocabularyService(a.Stores, logger)

	return a, nil
}

// Close 释放连接
func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.Logger.Sync()
}
