package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantProvider lists the tenants that own assets
type TenantProvider interface {
	GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// PeriodProvider lists the open periods of a tenant that ended before a date
type PeriodProvider interface {
	FindPeriodIDsToClose(ctx context.Context, tenantID uuid.UUID, before time.Time) ([]uuid.UUID, error)
}

// CronTriggerConfig holds configuration for the cron trigger
type CronTriggerConfig struct {
	// RunDay is the day of month to post on; 0 runs every day
	RunDay    int
	RunHour   int
	RunMinute int

	CheckInterval time.Duration
}

// DefaultCronTriggerConfig returns default cron trigger configuration
func DefaultCronTriggerConfig() CronTriggerConfig {
	return CronTriggerConfig{
		RunDay:        1,
		RunHour:       2,
		RunMinute:     0,
		CheckInterval: time.Minute,
	}
}

// CronTrigger submits one posting job per tenant and finished period at the
// configured time
type CronTrigger struct {
	config         CronTriggerConfig
	scheduler      *Scheduler
	tenantProvider TenantProvider
	periodProvider PeriodProvider
	logger         *zap.Logger
	now            func() time.Time

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
}

// NewCronTrigger creates a new cron trigger
func NewCronTrigger(
	config CronTriggerConfig,
	scheduler *Scheduler,
	tenantProvider TenantProvider,
	periodProvider PeriodProvider,
	logger *zap.Logger,
) *CronTrigger {
	if config.CheckInterval <= 0 {
		config.CheckInterval = time.Minute
	}
	return &CronTrigger{
		config:         config,
		scheduler:      scheduler,
		tenantProvider: tenantProvider,
		periodProvider: periodProvider,
		logger:         logger,
		now:            time.Now,
	}
}

// Start starts the trigger loop
func (c *CronTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isRunning {
		return nil
	}
	c.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.runLoop(ctx)

	c.logger.Info("Period close trigger started",
		zap.Int("run_day", c.config.RunDay),
		zap.Int("run_hour", c.config.RunHour),
		zap.Int("run_minute", c.config.RunMinute),
		zap.Duration("check_interval", c.config.CheckInterval),
	)
	return nil
}

// Stop stops the trigger loop
func (c *CronTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("Period close trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *CronTrigger) runLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.checkAndTrigger(ctx)
		}
	}
}

// shouldRun reports whether now matches the schedule and has not run yet today
func (c *CronTrigger) shouldRun(now time.Time) bool {
	if c.config.RunDay != 0 && now.Day() != c.config.RunDay {
		return false
	}
	if now.Hour() != c.config.RunHour || now.Minute() != c.config.RunMinute {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRunDate != now.Format("2006-01-02")
}

func (c *CronTrigger) checkAndTrigger(ctx context.Context) {
	now := c.now()
	if !c.shouldRun(now) {
		return
	}

	c.mu.Lock()
	c.lastRunDate = now.Format("2006-01-02")
	c.mu.Unlock()

	c.logger.Info("Triggering period close posting")
	c.TriggerNow(ctx)
}

// TriggerNow enumerates tenants and their finished open periods and submits
// one job for each. It returns the number of jobs submitted.
func (c *CronTrigger) TriggerNow(ctx context.Context) int {
	tenantIDs, err := c.tenantProvider.GetActiveTenantIDs(ctx)
	if err != nil {
		c.logger.Error("Failed to get tenant IDs for period posting", zap.Error(err))
		return 0
	}

	today := c.now()
	submitted := 0
	for _, tenantID := range tenantIDs {
		periodIDs, err := c.periodProvider.FindPeriodIDsToClose(ctx, tenantID, today)
		if err != nil {
			c.logger.Error("Failed to list periods to close",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err),
			)
			continue
		}
		for _, periodID := range periodIDs {
			if _, err := c.scheduler.SchedulePeriodPosting(tenantID, periodID, nil); err != nil {
				c.logger.Error("Failed to schedule period posting",
					zap.String("tenant_id", tenantID.String()),
					zap.String("period_id", periodID.String()),
					zap.Error(err),
				)
				continue
			}
			submitted++
		}
	}

	c.logger.Info("Scheduled period posting jobs",
		zap.Int("tenant_count", len(tenantIDs)),
		zap.Int("job_count", submitted),
	)
	return submitted
}
