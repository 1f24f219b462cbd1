package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// DepreciationMetrics records activity of the depreciation engine: board
// computations, posted lines and generated moves, skipped manual lines and
// closed assets. Open asset counts are collected periodically when a
// provider is configured.
type DepreciationMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	linesPosted   *Counter
	movesCreated  *Counter
	linesSkipped  *Counter
	linesCanceled *Counter
	assetsClosed  *Counter
	boardDuration *Histogram

	openAssets *Gauge

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	assetProvider  AssetMetricsProvider
	tenantProvider TenantProvider
}

// AssetMetricsProvider supplies asset counts for periodic collection
// without tying telemetry to the asset domain.
type AssetMetricsProvider interface {
	// CountAssetsByState returns the number of assets per state for a tenant
	CountAssetsByState(ctx context.Context, tenantID uuid.UUID) (map[string]int64, error)
}

// TenantProvider lists the tenants that own assets
type TenantProvider interface {
	GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// DepreciationMetricsConfig holds configuration for depreciation metrics
type DepreciationMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	AssetProvider   AssetMetricsProvider
	TenantProvider  TenantProvider
}

// BoardDurationBuckets are bucket boundaries for schedule computation (seconds)
var BoardDurationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}

// NewDepreciationMetrics creates the depreciation instruments on cfg.Meter
func NewDepreciationMetrics(cfg DepreciationMetricsConfig) (*DepreciationMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	dm := &DepreciationMetrics{
		meter:          cfg.Meter,
		logger:         logger,
		stopChan:       make(chan struct{}),
		assetProvider:  cfg.AssetProvider,
		tenantProvider: cfg.TenantProvider,
	}

	counters := []struct {
		target **Counter
		name   string
		desc   string
		unit   string
	}{
		{&dm.linesPosted, "depreciation_lines_posted_total", "Depreciation lines posted to the ledger", "{lines}"},
		{&dm.movesCreated, "depreciation_moves_created_total", "Ledger moves generated from depreciation lines", "{moves}"},
		{&dm.linesSkipped, "depreciation_lines_skipped_total", "Lines skipped because the asset is valued manually", "{lines}"},
		{&dm.linesCanceled, "depreciation_lines_cancelled_total", "Posted lines cancelled and their moves retracted", "{lines}"},
		{&dm.assetsClosed, "depreciation_assets_closed_total", "Assets closed, manually or after full depreciation", "{assets}"},
	}
	for _, c := range counters {
		counter, err := NewCounter(cfg.Meter, c.name, c.desc, c.unit)
		if err != nil {
			return nil, err
		}
		*c.target = counter
	}

	var err error
	dm.boardDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "depreciation_board_compute_duration_seconds",
		Description: "Time spent computing a depreciation board",
		Unit:        "s",
		Boundaries:  BoardDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	dm.openAssets, err = NewGauge(cfg.Meter, "depreciation_assets", "Current number of assets per state", "{assets}")
	if err != nil {
		return nil, err
	}

	if cfg.AssetProvider != nil && cfg.TenantProvider != nil {
		interval := cfg.CollectInterval
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		dm.startCollection(interval)
	}

	return dm, nil
}

// RecordLinesPosted counts lines posted in one batch
func (dm *DepreciationMetrics) RecordLinesPosted(ctx context.Context, tenantID uuid.UUID, count int) {
	if dm == nil || count <= 0 {
		return
	}
	dm.linesPosted.Add(ctx, int64(count), AttrTenantID.String(tenantID.String()))
}

// RecordMovesCreated counts ledger moves generated in one batch
func (dm *DepreciationMetrics) RecordMovesCreated(ctx context.Context, tenantID uuid.UUID, count int) {
	if dm == nil || count <= 0 {
		return
	}
	dm.movesCreated.Add(ctx, int64(count), AttrTenantID.String(tenantID.String()))
}

// RecordLinesSkipped counts lines of manually valued assets
func (dm *DepreciationMetrics) RecordLinesSkipped(ctx context.Context, tenantID uuid.UUID, count int) {
	if dm == nil || count <= 0 {
		return
	}
	dm.linesSkipped.Add(ctx, int64(count), AttrTenantID.String(tenantID.String()))
}

// RecordLineCancelled counts one cancelled line
func (dm *DepreciationMetrics) RecordLineCancelled(ctx context.Context, tenantID uuid.UUID) {
	if dm == nil {
		return
	}
	dm.linesCanceled.Inc(ctx, AttrTenantID.String(tenantID.String()))
}

// RecordAssetClosed counts one closed asset
func (dm *DepreciationMetrics) RecordAssetClosed(ctx context.Context, tenantID uuid.UUID, automatic bool) {
	if dm == nil {
		return
	}
	dm.assetsClosed.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrAutomatic.Bool(automatic),
	)
}

// RecordBoardComputed records the duration of one board computation
func (dm *DepreciationMetrics) RecordBoardComputed(ctx context.Context, tenantID uuid.UUID, method string, d time.Duration) {
	if dm == nil {
		return
	}
	dm.boardDuration.RecordDuration(ctx, d,
		AttrTenantID.String(tenantID.String()),
		AttrMethod.String(method),
	)
}

// RecordAssetCount records the current asset count of a tenant in one state
func (dm *DepreciationMetrics) RecordAssetCount(ctx context.Context, tenantID uuid.UUID, state string, count int64) {
	if dm == nil {
		return
	}
	dm.openAssets.Record(ctx, count,
		AttrTenantID.String(tenantID.String()),
		AttrAssetState.String(state),
	)
}

func (dm *DepreciationMetrics) startCollection(interval time.Duration) {
	dm.collectOnce.Do(func() {
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			dm.collect()
			for {
				select {
				case <-ticker.C:
					dm.collect()
				case <-dm.stopChan:
					return
				}
			}
		}()
	})
}

func (dm *DepreciationMetrics) collect() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tenantIDs, err := dm.tenantProvider.GetActiveTenantIDs(ctx)
	if err != nil {
		dm.logger.Warn("Failed to list tenants for asset metrics", zap.Error(err))
		return
	}
	for _, tenantID := range tenantIDs {
		counts, err := dm.assetProvider.CountAssetsByState(ctx, tenantID)
		if err != nil {
			dm.logger.Warn("Failed to collect asset counts",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err),
			)
			continue
		}
		for state, count := range counts {
			dm.RecordAssetCount(ctx, tenantID, state, count)
		}
	}
}

// Stop stops the periodic collection
func (dm *DepreciationMetrics) Stop() {
	dm.stopOnce.Do(func() {
		close(dm.stopChan)
	})
}

// ErrMeterNil is returned when no meter is configured
var ErrMeterNil = &MetricsError{Op: "NewDepreciationMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
