package ledger

import (
	"context"

	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// JournalRepository defines persistence for journals
type JournalRepository interface {
	// FindByID finds a journal by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Journal, error)

	// FindByIDForTenant finds a journal by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Journal, error)

	// FindAllForTenant lists journals for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Journal, int64, error)

	// Save creates or updates a journal
	Save(ctx context.Context, journal *Journal) error
}

// PeriodRepository defines persistence for accounting periods
type PeriodRepository interface {
	// FindByIDForTenant finds a period by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Period, error)

	// FindCovering returns the non-special period containing date.
	// Returns ErrPeriodNotFound when none exists.
	FindCovering(ctx context.Context, tenantID uuid.UUID, date valueobject.Date) (*Period, error)

	// FindAllForTenant lists periods for a tenant ordered by start date
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Period, int64, error)

	// FindOpenEndedBefore returns open, non-special periods whose stop date is before date
	FindOpenEndedBefore(ctx context.Context, tenantID uuid.UUID, date valueobject.Date) ([]Period, error)

	// Save creates or updates a period
	Save(ctx context.Context, period *Period) error
}

// MoveRepository defines persistence for moves and their lines
type MoveRepository interface {
	// FindByIDForTenant loads a move with its lines
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Move, error)

	// Create inserts the move header and all of its lines
	Create(ctx context.Context, move *Move) error

	// Delete removes the move and its lines
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// FindLinesByAsset returns every move line linked to the asset
	FindLinesByAsset(ctx context.Context, tenantID, assetID uuid.UUID) ([]MoveLine, error)

	// CountLinesByAsset counts move lines linked to the asset
	CountLinesByAsset(ctx context.Context, tenantID, assetID uuid.UUID) (int64, error)

	// MaxLineDateByAssetAccount returns the latest line date on accountID for the
	// asset, or a zero Date when there is none
	MaxLineDateByAssetAccount(ctx context.Context, tenantID, assetID, accountID uuid.UUID) (valueobject.Date, error)
}

// CurrencyRateRepository defines persistence for currency rates
type CurrencyRateRepository interface {
	// FindEffective returns the latest rate for currency effective on or before date
	FindEffective(ctx context.Context, tenantID uuid.UUID, currency valueobject.Currency, date valueobject.Date) (*CurrencyRate, error)

	// FindAllForTenant lists rates for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]CurrencyRate, int64, error)

	// Save creates or updates a rate
	Save(ctx context.Context, rate *CurrencyRate) error
}
