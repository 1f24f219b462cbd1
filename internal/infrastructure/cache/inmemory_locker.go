package cache

import (
	"context"
	"sync"
	"time"

	"github.com/erp/depreciation/internal/domain/shared"
)

// lockEntry is a held lock with its expiration
type lockEntry struct {
	token     uint64
	expiresAt time.Time
}

// InMemoryAssetLocker implements shared.Locker with an in-process map.
// Suitable for single-instance deployments and testing.
type InMemoryAssetLocker struct {
	mu        sync.Mutex
	locks     map[string]lockEntry
	next      uint64
	wait      time.Duration
	retry     time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryAssetLocker creates a new in-memory locker.
// It starts a background goroutine to drop expired locks.
func NewInMemoryAssetLocker(cfg shared.LockConfig) *InMemoryAssetLocker {
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = shared.DefaultLockConfig().RetryInterval
	}
	l := &InMemoryAssetLocker{
		locks:    make(map[string]lockEntry),
		wait:     cfg.Wait,
		retry:    cfg.RetryInterval,
		stopChan: make(chan struct{}),
	}

	l.wg.Add(1)
	go l.cleanupLoop()

	return l
}

// Acquire takes the lock for key, retrying until the wait budget is spent
func (l *InMemoryAssetLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	deadline := time.Now().Add(l.wait)
	for {
		if token, ok := l.tryAcquire(key, ttl); ok {
			var once sync.Once
			return func() {
				once.Do(func() { l.release(key, token) })
			}, nil
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

func (l *InMemoryAssetLocker) tryAcquire(key string, ttl time.Duration) (uint64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if e, held := l.locks[key]; held && now.Before(e.expiresAt) {
		return 0, false
	}
	l.next++
	l.locks[key] = lockEntry{token: l.next, expiresAt: now.Add(ttl)}
	return l.next, true
}

// release drops the lock only if it is still held with the same token
func (l *InMemoryAssetLocker) release(key string, token uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, held := l.locks[key]; held && e.token == token {
		delete(l.locks, key)
	}
}

// Close stops the cleanup goroutine and releases resources
// Safe to call multiple times
func (l *InMemoryAssetLocker) Close() error {
	l.closeOnce.Do(func() {
		close(l.stopChan)
		l.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired locks
func (l *InMemoryAssetLocker) cleanupLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			return
		case <-ticker.C:
			l.cleanup()
		}
	}
}

func (l *InMemoryAssetLocker) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for key, e := range l.locks {
		if now.After(e.expiresAt) {
			delete(l.locks, key)
		}
	}
}

// Size returns the number of held locks (for testing/monitoring)
func (l *InMemoryAssetLocker) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

var _ shared.Locker = (*InMemoryAssetLocker)(nil)
