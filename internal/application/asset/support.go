package asset

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/erp/depreciation/internal/domain/asset"
	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// assetCodeSequence names the per-tenant sequence asset codes are drawn from
const assetCodeSequence = "asset.code"

// CurrencyProvider converts amounts and knows the company currency
type CurrencyProvider interface {
	asset.CurrencyConverter
	CompanyCurrency() valueobject.Currency
}

// AssetLockKey is the lock key serializing board and posting work on one asset
func AssetLockKey(tenantID, assetID uuid.UUID) string {
	return fmt.Sprintf("asset:lock:%s:%s", tenantID, assetID)
}

// assetLocks takes the per-asset locks in ID order so two batches touching
// the same assets cannot deadlock. A nil locker locks nothing.
type assetLocks struct {
	locker shared.Locker
	ttl    time.Duration
}

func (l assetLocks) acquire(ctx context.Context, tenantID uuid.UUID, ids ...uuid.UUID) (func(), error) {
	if l.locker == nil || len(ids) == 0 {
		return func() {}, nil
	}

	sorted := make([]uuid.UUID, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].String() < sorted[j].String() })

	releases := make([]func(), 0, len(sorted))
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}
	var prev uuid.UUID
	for i, id := range sorted {
		if i > 0 && id == prev {
			continue
		}
		prev = id
		release, err := l.locker.Acquire(ctx, AssetLockKey(tenantID, id), l.ttl)
		if err != nil {
			releaseAll()
			return nil, err
		}
		releases = append(releases, release)
	}
	return releaseAll, nil
}

// depreciatedAmount is the posted depreciation of an asset converted to the
// asset currency at asOf. The account falls back to the category's as posting
// does.
func depreciatedAmount(ctx context.Context, ledger asset.LedgerGateway, currency CurrencyProvider, a *asset.Asset, c *asset.Category, asOf valueobject.Date) (decimal.Decimal, error) {
	account := a.DepreciationAccount(c)
	if account == nil {
		return decimal.Zero, nil
	}
	sum, err := ledger.SumAssetDepreciation(ctx, a.TenantID, a.ID, *account)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum depreciation of asset %s: %w", a.ID, err)
	}
	if sum.IsZero() {
		return decimal.Zero, nil
	}
	converted, err := currency.Convert(ctx, a.TenantID, currency.CompanyCurrency(), a.Currency, sum, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	return a.Currency.Round(converted), nil
}

// publishEvents publishes the events queued on the given aggregates. Failures
// are logged; the state change is already committed.
func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, assets ...*asset.Asset) {
	for _, a := range assets {
		events := a.PullDomainEvents()
		if publisher == nil || len(events) == 0 {
			continue
		}
		if err := publisher.Publish(ctx, events...); err != nil {
			logger.Warn("Failed to publish asset events",
				zap.String("asset_id", a.ID.String()),
				zap.Int("events", len(events)),
				zap.Error(err),
			)
		}
	}
}
