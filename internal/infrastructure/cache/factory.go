package cache

import (
	"fmt"

	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/erp/depreciation/internal/infrastructure/config"
	"go.uber.org/zap"
)

// LockerFactory creates asset lockers based on configuration
type LockerFactory struct {
	redisConfig           config.RedisConfig
	lockConfig            config.LockConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// LockerFactoryOption is a functional option for configuring the factory
type LockerFactoryOption func(*LockerFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) LockerFactoryOption {
	return func(f *LockerFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory locker when Redis is unavailable
// Default is true (allow fallback)
func WithInMemoryFallback(allow bool) LockerFactoryOption {
	return func(f *LockerFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewLockerFactory creates a new factory
func NewLockerFactory(redisCfg config.RedisConfig, lockCfg config.LockConfig, opts ...LockerFactoryOption) *LockerFactory {
	f := &LockerFactory{
		redisConfig:           redisCfg,
		lockConfig:            lockCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

func (f *LockerFactory) sharedLockConfig() shared.LockConfig {
	return shared.LockConfig{
		TTL:           f.lockConfig.TTL,
		Wait:          f.lockConfig.Wait,
		RetryInterval: f.lockConfig.RetryInterval,
	}
}

// CreateRedisLocker creates a Redis-based locker
func (f *LockerFactory) CreateRedisLocker() (shared.Locker, error) {
	redisCfg := RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}

	locker, err := NewRedisAssetLocker(redisCfg, f.sharedLockConfig(), f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis asset locker: %w", err)
	}

	return locker, nil
}

// CreateInMemoryLocker creates an in-memory locker
// WARNING: In-memory locks are not shared across process instances, so two
// instances may recompute the same asset concurrently
func (f *LockerFactory) CreateInMemoryLocker() shared.Locker {
	return NewInMemoryAssetLocker(f.sharedLockConfig())
}

// CreateLocker creates the locker selected by lock.backend. With the redis
// backend it falls back to in-memory when Redis is unreachable and fallback
// is allowed.
func (f *LockerFactory) CreateLocker() (shared.Locker, error) {
	if f.lockConfig.Backend != "redis" {
		f.logger.Info("using in-memory asset locker")
		return f.CreateInMemoryLocker(), nil
	}

	locker, err := f.CreateRedisLocker()
	if err == nil {
		f.logger.Info("using Redis asset locker")
		return locker, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for asset locking but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory asset locker. "+
		"Concurrent instances may recompute the same asset.",
		zap.Error(err),
	)
	return f.CreateInMemoryLocker(), nil
}
