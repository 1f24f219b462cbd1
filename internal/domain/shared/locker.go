package shared

import (
	"context"
	"time"
)

// Locker serializes work on a single key (one asset) across processes.
type Locker interface {
	// Acquire takes the lock for key, waiting up to the implementation's wait
	// budget. The returned release func must be called exactly once.
	// Returns ErrLockNotAcquired when the lock is held elsewhere.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)

	// Close releases resources held by the locker
	Close() error
}

// LockConfig holds per-asset lock settings
type LockConfig struct {
	// TTL bounds how long a crashed holder can keep the lock
	TTL time.Duration
	// Wait is how long Acquire retries before giving up
	Wait time.Duration
	// RetryInterval is the pause between attempts
	RetryInterval time.Duration
}

// DefaultLockConfig returns the default lock configuration
func DefaultLockConfig() LockConfig {
	return LockConfig{
		TTL:           30 * time.Second,
		Wait:          5 * time.Second,
		RetryInterval: 50 * time.Millisecond,
	}
}
