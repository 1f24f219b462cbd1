package asset

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/erp/depreciation/internal/domain/asset"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testTenantID = uuid.MustParse("22222222-2222-2222-2222-222222222222")

func newID() *uuid.UUID {
	id := uuid.New()
	return &id
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func fixedToday() valueobject.Date {
	return valueobject.MustParseDate("2023-06-30")
}

func newTestCategory(t *testing.T) *asset.Category {
	t.Helper()
	c, err := asset.NewCategory(testTenantID, "Computers")
	require.NoError(t, err)
	c.SetAccounts(asset.Accounts{
		JournalID:                    newID(),
		AssetAccountID:               newID(),
		DepreciationAccountID:        newID(),
		ExpenseDepreciationAccountID: newID(),
	})
	return c
}

func linearParams(number int) asset.DepreciationParams {
	return asset.DepreciationParams{
		Method:       asset.MethodLinear,
		MethodNumber: number,
		MethodPeriod: 1,
		MethodTime:   asset.MethodTimeNumber,
	}
}

func newTestAsset(t *testing.T, c *asset.Category, purchase, salvage, purchaseDate string, params asset.DepreciationParams) *asset.Asset {
	t.Helper()
	a, err := asset.NewAsset(testTenantID, asset.NewAssetInput{
		Code:          "ASSET/2023/00001",
		Name:          "Laptop",
		Category:      c,
		Currency:      valueobject.USD,
		PurchaseValue: dec(purchase),
		SalvageValue:  dec(salvage),
		PurchaseDate:  valueobject.MustParseDate(purchaseDate),
		Params:        &params,
	})
	require.NoError(t, err)
	return a
}

func newOpenAsset(t *testing.T, c *asset.Category, purchase string, params asset.DepreciationParams) *asset.Asset {
	t.Helper()
	a := newTestAsset(t, c, purchase, "0", "2023-01-10", params)
	require.NoError(t, a.Validate())
	a.ClearDomainEvents()
	return a
}

func draftLine(a *asset.Asset, seq int, amount, date string) asset.DepreciationLine {
	line := asset.DepreciationLine{
		TenantID:         a.TenantID,
		AssetID:          a.ID,
		Name:             fmt.Sprintf("%s/%d", a.LineNamePrefix(), seq),
		Sequence:         seq,
		Amount:           dec(amount),
		DepreciationDate: valueobject.MustParseDate(date),
		State:            asset.LineStateDraft,
	}
	line.ID = uuid.New()
	return line
}

// recordingLocker is a Locker that records the keys it hands out
type recordingLocker struct {
	mu       sync.Mutex
	acquired []string
	released int
	err      error
}

func (l *recordingLocker) Acquire(_ context.Context, key string, _ time.Duration) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	l.acquired = append(l.acquired, key)
	return func() {
		l.mu.Lock()
		l.released++
		l.mu.Unlock()
	}, nil
}

func (l *recordingLocker) Close() error { return nil }

type assetFixture struct {
	categories *MockCategoryRepository
	assets     *MockAssetRepository
	lines      *MockLineRepository
	history    *MockHistoryRepository
	ledger     *MockLedgerGateway
	codes      *MockCodeSequence
	periods    *MockPeriodRepository
	publisher  *MockEventPublisher
	currency   *fixedCurrency
	locker     *recordingLocker
}

func newAssetFixture() *assetFixture {
	return &assetFixture{
		categories: new(MockCategoryRepository),
		assets:     new(MockAssetRepository),
		lines:      new(MockLineRepository),
		history:    new(MockHistoryRepository),
		ledger:     new(MockLedgerGateway),
		codes:      new(MockCodeSequence),
		periods:    new(MockPeriodRepository),
		publisher:  new(MockEventPublisher),
		currency:   newFixedCurrency(valueobject.USD),
		locker:     &recordingLocker{},
	}
}

func (f *assetFixture) assetService() *AssetService {
	s := NewAssetService(f.categories, f.assets, f.lines, f.history, f.ledger, f.currency, f.codes, zap.NewNop())
	s.SetLocker(f.locker, time.Second)
	s.SetEventPublisher(f.publisher)
	s.today = fixedToday
	return s
}

func (f *assetFixture) postingService() *PostingService {
	s := NewPostingService(f.categories, f.assets, f.lines, f.history, f.ledger, f.periods, f.currency, zap.NewNop())
	s.SetLocker(f.locker, time.Second)
	s.SetEventPublisher(f.publisher)
	s.today = fixedToday
	return s
}
