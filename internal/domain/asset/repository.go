package asset

import (
	"context"

	"github.com/erp/depreciation/internal/domain/ledger"
	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryFilter extends the shared filter with category-specific options
type CategoryFilter struct {
	shared.Filter
	Type     *CategoryType
	ParentID *uuid.UUID
}

// AssetFilter extends the shared filter with asset-specific options
type AssetFilter struct {
	shared.Filter
	State      *AssetState
	CategoryID *uuid.UUID
	ParentID   *uuid.UUID
}

// CategoryRepository defines persistence for asset categories
type CategoryRepository interface {
	// FindByIDForTenant finds a category by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Category, error)

	// FindAllForTenant lists categories for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter CategoryFilter) ([]Category, int64, error)

	// FindByIDs loads several categories at once, keyed by ID
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*Category, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error

	// Delete removes a category
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// AssetRepository defines persistence for assets
type AssetRepository interface {
	// FindByIDForTenant finds an asset by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Asset, error)

	// FindByIDs loads several assets at once, keyed by ID
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*Asset, error)

	// FindAllForTenant lists assets for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter AssetFilter) ([]Asset, int64, error)

	// FindChildren lists the direct children of an asset
	FindChildren(ctx context.Context, tenantID, parentID uuid.UUID) ([]Asset, error)

	// FindParentID returns the parent of an asset, nil for a root
	FindParentID(ctx context.Context, tenantID, id uuid.UUID) (*uuid.UUID, error)

	// FindOpenIDs lists the open assets of a tenant, optionally for one category
	FindOpenIDs(ctx context.Context, tenantID uuid.UUID, categoryID *uuid.UUID) ([]uuid.UUID, error)

	// ExistsByCode reports whether a code is already used by the tenant
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)

	// Save creates or updates an asset
	Save(ctx context.Context, asset *Asset) error

	// SaveWithLock updates an asset only if its stored version is one behind
	SaveWithLock(ctx context.Context, asset *Asset) error

	// Delete removes an asset and its draft lines
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// LineRepository defines persistence for depreciation lines
type LineRepository interface {
	// FindByIDForTenant finds a line by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*DepreciationLine, error)

	// FindByIDs loads several lines at once
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]DepreciationLine, error)

	// FindByAsset lists every line of an asset, date descending then sequence ascending
	FindByAsset(ctx context.Context, tenantID, assetID uuid.UUID) ([]DepreciationLine, error)

	// FindPosted lists the done and cancel lines of an asset, date descending
	FindPosted(ctx context.Context, tenantID, assetID uuid.UUID) ([]DepreciationLine, error)

	// FindDraftInRange lists draft lines of the given assets dated within [start, stop]
	FindDraftInRange(ctx context.Context, tenantID uuid.UUID, assetIDs []uuid.UUID, start, stop valueobject.Date) ([]DepreciationLine, error)

	// DeleteDraftByAsset removes every draft line of an asset
	DeleteDraftByAsset(ctx context.Context, tenantID, assetID uuid.UUID) error

	// SaveBatch inserts or updates lines
	SaveBatch(ctx context.Context, lines []DepreciationLine) error

	// Save inserts or updates a single line
	Save(ctx context.Context, line *DepreciationLine) error

	// Delete removes a line
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// HistoryRepository defines persistence for asset history entries
type HistoryRepository interface {
	// FindByAsset lists history entries, most recent first
	FindByAsset(ctx context.Context, tenantID, assetID uuid.UUID) ([]History, error)

	// Create appends an entry
	Create(ctx context.Context, history *History) error
}

// CodeSequence hands out asset codes
type CodeSequence interface {
	// Next returns the next number of the named sequence for a tenant
	Next(ctx context.Context, tenantID uuid.UUID, name string) (int64, error)
}

// LedgerGateway is the ledger collaborator used to schedule and post depreciation
type LedgerGateway interface {
	// FindLastPostedDepreciationDate returns the latest ledger line date of the
	// asset on accountID, or a zero Date when there is none
	FindLastPostedDepreciationDate(ctx context.Context, tenantID, assetID, accountID uuid.UUID) (valueobject.Date, error)

	// FindPeriodCovering returns the open period containing date
	FindPeriodCovering(ctx context.Context, tenantID uuid.UUID, date valueobject.Date) (uuid.UUID, error)

	// JournalType returns the type of a journal
	JournalType(ctx context.Context, tenantID, journalID uuid.UUID) (ledger.JournalType, error)

	// CreateMove persists a move with all of its lines and returns its ID
	CreateMove(ctx context.Context, move *ledger.Move) (uuid.UUID, error)

	// ReverseAndDeleteMove retracts a move and removes it with its lines
	ReverseAndDeleteMove(ctx context.Context, tenantID, moveID uuid.UUID) error

	// SumAssetDepreciation returns the sum of |debit - credit| over the asset's
	// ledger lines on accountID, in company currency
	SumAssetDepreciation(ctx context.Context, tenantID, assetID, accountID uuid.UUID) (decimal.Decimal, error)

	// CountAssetEntries counts ledger lines linked to the asset
	CountAssetEntries(ctx context.Context, tenantID, assetID uuid.UUID) (int64, error)
}

// CurrencyConverter is the currency collaborator
type CurrencyConverter interface {
	// Convert converts amount from one currency to another at the rate effective on asOf
	Convert(ctx context.Context, tenantID uuid.UUID, from, to valueobject.Currency, amount decimal.Decimal, asOf valueobject.Date) (decimal.Decimal, error)

	// IsZero reports whether amount is zero at the currency precision
	IsZero(currency valueobject.Currency, amount decimal.Decimal) bool
}
