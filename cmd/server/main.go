package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/qs3c/alloc_server/config"
	"github.com/qs3c/alloc_server/internal/api"
	"github.com/qs3c/alloc_server/internal/api/handler"
	"github.com/qs3c/alloc_server/internal/app"
	"github.com/qs3c/alloc_server/internal/pkg/cron"
	"github.com/qs3c/alloc_server/internal/pkg/logger"
	"github.com/qs3c/alloc_server/internal/pkg/validate"
)

func main() {
	configPath := flag.String("config", "config.yaml", "config file")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	// 初始化数据库、Redis、回调与 Service
	a, err := app.New(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to init application", zap.Error(err))
	}
	defer a.Close()

	if err := validate.Register(); err != nil {
		zlog.Fatal("failed to register validators", zap.Error(err))
	}

	// 每日过期巡检
	sweeper := cron.NewService(a.Subscription, cfg.Subscription.SweepHour, zlog)
	sweeper.Start()
	defer sweeper.Stop()

	// 初始化 Handler
	handlers := api.Handlers{
		Auth:         handler.NewAuthHandler(a.Auth),
		Vocabulary:   handler.NewVocabularyHandler(a.Vocabulary, a.Attribute),
		Subscription: handler.NewSubscriptionHandler(a.Subscription),
		Attribute:    handler.NewAttributeHandler(a.Attribute),
		Membership:   handler.NewMembershipHandler(a.Membership),
		Note:         handler.NewNoteHandler(a.Note),
		Account:      handler.NewAccountHandler(a.Account),
	}

	// 初始化 Router
	engine := api.NewRouter(handlers, a.Auth, cfg, zlog).Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: engine}

	go func() {
		zlog.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// 监听退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	zlog.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("server shutdown", zap.Error(err))
	}
	zlog.Info("server stopped")
}
