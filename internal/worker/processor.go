package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/qs3c/alloc_server/internal/pkg/queue"
)

var ErrInvalidMessage = errors.New("invalid usage message")

// UsageSetter 写入属性用量
type UsageSetter interface {
	SetUsage(subscriptionID int64, name string, value float64) error
}

// Source 用量消息来源
type Source interface {
	Pop(ctx context.Context, timeout time.Duration) (*queue.UsageMessage, error)
}

// Processor 用量更新处理器
type Processor struct {
	usage        UsageSetter
	logger       *zap.Logger
	popTimeout   time.Duration
	errorBackoff time.Duration
}

// NewProcessor 创建用量处理器
func NewProcessor(usage UsageSetter, logger *zap.Logger) *Processor {
	return &Processor{
		usage:        usage,
		logger:       logger,
		popTimeout:   5 * time.Second,
		errorBackoff: time.Second,
	}
}

// Process 处理单条用量消息
func (p *Processor) Process(msg *queue.UsageMessage) error {
	if msg.SubscriptionID <= 0 || msg.AttributeName == "" {
		return fmt.Errorf("%w: subscription %d attribute %q", ErrInvalidMessage, msg.SubscriptionID, msg.AttributeName)
	}
	if err := p.usage.SetUsage(msg.SubscriptionID, msg.AttributeName, msg.Value); err != nil {
		return fmt.Errorf("set usage for subscription %d: %w", msg.SubscriptionID, err)
	}
	return nil
}

// Run 启动 workers 个消费协程，ctx 取消后等待全部退出
func (p *Processor) Run(ctx context.Context, source Source, workers int) {
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			p.loop(ctx, source, workerID)
		}(i)
	}
	wg.Wait()
}

func (p *Processor) loop(ctx context.Context, source Source, workerID int) {
	log := p.logger.With(zap.Int("worker", workerID))

	for {
		select {
		case <-ctx.Done():
			log.Info("worker shutting down")
			return
		default:
		}

		msg, err := source.Pop(ctx, p.popTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warn("failed to pop usage message", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(p.errorBackoff):
			}
			continue
		}
		if msg == nil {
			continue // 超时，继续等待
		}

		if err := p.Process(msg); err != nil {
			log.Warn("usage update failed",
				zap.Int64("subscription_id", msg.SubscriptionID),
				zap.String("attribute_name", msg.AttributeName),
				zap.Error(err),
			)
			continue
		}
		log.Debug("usage updated",
			zap.Int64("subscription_id", msg.SubscriptionID),
			zap.String("attribute_name", msg.AttributeName),
			zap.Float64("value", msg.Value),
		)
	}
}
