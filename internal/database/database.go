package database

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/qs3c/alloc_server/config"
	"github.com/qs3c/alloc_server/internal/model"
)

// Models 需要迁移的全部模型
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Project{},
		&model.Resource{},
		&model.SubscriptionStatusChoice{},
		&model.Subscription{},
		&model.AttributeType{},
		&model.SubscriptionAttributeType{},
		&model.SubscriptionAttribute{},
		&model.SubscriptionAttributeUsage{},
		&model.SubscriptionUserStatusChoice{},
		&model.SubscriptionUser{},
		&model.SubscriptionAdminNote{},
		&model.SubscriptionUserNote{},
		&model.SubscriptionAccount{},
		&model.HistoricalRecord{},
	}
}

// AutoMigrate 自动迁移所有模型
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// Open 根据配置选择数据库驱动
func Open(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	switch cfg.Driver {
	case "", "mysql":
		return NewMySQL(cfg)
	case "sqlite":
		return NewSQLite(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func NewMySQL(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		cfg.Username,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
	)

	db, err := gorm.Open(mysql.Open(dsn), gormConfig(cfg))
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// NewSQLite 本地开发使用
func NewSQLite(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	path := cfg.SQLitePath
	if path == "" {
		path = "alloc.db"
	}
	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), gormConfig(cfg))
	if err != nil {
		return nil, err
	}
	return db, nil
}

func gormConfig(cfg *config.DatabaseConfig) *gorm.Config {
	level := logger.Warn
	if cfg.LogSQL {
		level = logger.Info
	}
	return &gorm.Config{
		Logger:  logger.Default.LogMode(level),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}
}

func NewRedis(cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}
