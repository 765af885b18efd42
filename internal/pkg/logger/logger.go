package logger

import (
	"go.uber.org/zap"

	"github.com/qs3c/alloc_server/config"
)

// New 根据配置创建 zap logger
func New(cfg config.LogConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}

	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		zc.Level = level
	}

	return zc.Build()
}
