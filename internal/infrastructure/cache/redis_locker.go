package cache

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// releaseScript deletes the lock only while it still holds the caller's token,
// so a holder whose TTL expired cannot release a lock taken by someone else.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisAssetLocker implements shared.Locker with Redis SET NX.
// It serializes board recomputation and posting of one asset across instances.
type RedisAssetLocker struct {
	client    *redis.Client
	keyPrefix string
	wait      time.Duration
	retry     time.Duration
	logger    *zap.Logger
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisAssetLocker connects to Redis and creates a locker
func NewRedisAssetLocker(cfg RedisConfig, lock shared.LockConfig, logger *zap.Logger) (*RedisAssetLocker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisAssetLockerWithClient(client, "", lock, logger), nil
}

// NewRedisAssetLockerWithClient creates a locker with an existing Redis client
func NewRedisAssetLockerWithClient(client *redis.Client, keyPrefix string, lock shared.LockConfig, logger *zap.Logger) *RedisAssetLocker {
	if keyPrefix == "" {
		keyPrefix = "depreciation:lock:"
	}
	if lock.RetryInterval <= 0 {
		lock.RetryInterval = shared.DefaultLockConfig().RetryInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisAssetLocker{
		client:    client,
		keyPrefix: keyPrefix,
		wait:      lock.Wait,
		retry:     lock.RetryInterval,
		logger:    logger,
	}
}

// Acquire takes the lock for key, retrying until the wait budget is spent
func (l *RedisAssetLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token, err := newLockToken()
	if err != nil {
		return nil, err
	}
	redisKey := l.keyPrefix + key
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			return l.releaseFunc(redisKey, token), nil
		}
		if !time.Now().Before(deadline) {
			return nil, shared.ErrLockNotAcquired
		}

		timer := time.NewTimer(l.retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (l *RedisAssetLocker) releaseFunc(redisKey, token string) func() {
	return func() {
		// the caller's context may already be cancelled
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Err(); err != nil {
			l.logger.Warn("failed to release asset lock", zap.String("key", redisKey), zap.Error(err))
		}
	}
}

// Close closes the Redis client
func (l *RedisAssetLocker) Close() error {
	return l.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (l *RedisAssetLocker) GetClient() *redis.Client {
	return l.client
}

func newLockToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate lock token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

var _ shared.Locker = (*RedisAssetLocker)(nil)
