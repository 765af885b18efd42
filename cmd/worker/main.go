package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/qs3c/alloc_server/config"
	"github.com/qs3c/alloc_server/internal/app"
	"github.com/qs3c/alloc_server/internal/pkg/logger"
	"github.com/qs3c/alloc_server/internal/pkg/pubsub"
	"github.com/qs3c/alloc_server/internal/pkg/queue"
	"github.com/qs3c/alloc_server/internal/worker"
)

func main() {
	configPath := flag.String("config", "config.yaml", "config file")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	if cfg.Redis.Host == "" {
		zlog.Fatal("worker requires redis.host")
	}

	a, err := app.New(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to init application", zap.Error(err))
	}
	defer a.Close()

	// 创建 context 用于优雅关闭
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		zlog.Info("received shutdown signal")
		cancel()
	}()

	// 过期事件仅记录日志，供运维观察
	subscriber := pubsub.NewSubscriber(a.Redis)
	go func() {
		err := subscriber.Subscribe(ctx, func(ev *pubsub.SubscriptionEvent) {
			zlog.Info("subscription event",
				zap.String("type", ev.Type),
				zap.Int64("subscription_id", ev.SubscriptionID),
			)
		})
		if err != nil && ctx.Err() == nil {
			zlog.Error("event subscription stopped", zap.Error(err))
		}
	}()

	usageQueue := queue.NewQueue(a.Redis, cfg.Queue.UsageQueue)
	processor := worker.NewProcessor(a.Subscription, zlog)

	zlog.Info("worker started",
		zap.String("queue", cfg.Queue.UsageQueue),
		zap.Int("max_workers", cfg.Queue.MaxWorkers),
	)
	processor.Run(ctx, usageQueue, cfg.Queue.MaxWorkers)
	zlog.Info("worker shutdown complete")
}
