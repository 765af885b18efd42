package cron

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/qs3c/alloc_server/internal/model/dto"
)

// Expirer 将过了结束日期的订阅转为 Expired
type Expirer interface {
	ExpireOverdue(ctx context.Context) (*dto.ExpireResult, error)
}

// Service 每日过期巡检
type Service struct {
	expirer   Expirer
	sweepHour int
	logger    *zap.Logger
	now       func() time.Time

	stopOnce sync.Once
	stopChan chan struct{}
}

func NewService(expirer Expirer, sweepHour int, logger *zap.Logger) *Service {
	if sweepHour < 0 || sweepHour > 23 {
		sweepHour = 0
	}
	return &Service{
		expirer:   expirer,
		sweepHour: sweepHour,
		logger:    logger,
		now:       time.Now,
		stopChan:  make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runDailySweep()
	s.logger.Info("expiry sweeper started", zap.Int("sweep_hour_utc", s.sweepHour))
}

// Stop 停止定时任务，可重复调用
func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		s.logger.Info("expiry sweeper stopped")
	})
}

// nextRun 下一次巡检时间（UTC）
func (s *Service) nextRun() time.Time {
	now := s.now().UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), s.sweepHour, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (s *Service) runDailySweep() {
	timer := time.NewTimer(s.nextRun().Sub(s.now().UTC()))
	defer timer.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-timer.C:
			if _, err := s.RunNow(context.Background()); err != nil {
				s.logger.Error("expiry sweep failed", zap.Error(err))
			}
			timer.Reset(s.nextRun().Sub(s.now().UTC()))
		}
	}
}

// RunNow 立即执行一次巡检（手动触发或测试）
func (s *Service) RunNow(ctx context.Context) (*dto.ExpireResult, error) {
	result, err := s.expirer.ExpireOverdue(ctx)
	if err != nil {
		return nil, err
	}

	for id, reason := range result.Failed {
		s.logger.Warn("subscription not expired",
			zap.Int64("subscription_id", id),
			zap.String("reason", reason),
		)
	}
	s.logger.Info("expiry sweep completed",
		zap.Int("expired", len(result.Expired)),
		zap.Int("failed", len(result.Failed)),
	)
	return result, nil
}
