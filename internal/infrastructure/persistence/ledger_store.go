package persistence

import (
	"context"
	"errors"

	"github.com/erp/depreciation/internal/domain/asset"
	"github.com/erp/depreciation/internal/domain/ledger"
	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/erp/depreciation/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormLedgerStore is the ledger collaborator of the depreciation engine. It
// reads periods and journals and writes balanced moves through the ledger
// repositories sharing its *gorm.DB, so inside a transaction scope the moves
// commit together with the depreciation lines that reference them.
type GormLedgerStore struct {
	db       *gorm.DB
	journals *GormJournalRepository
	periods  *GormPeriodRepository
	moves    *GormMoveRepository
	company  valueobject.Currency
}

// NewGormLedgerStore creates a new GormLedgerStore posting in the company currency
func NewGormLedgerStore(db *gorm.DB, company valueobject.Currency) *GormLedgerStore {
	return &GormLedgerStore{
		db:       db,
		journals: NewGormJournalRepository(db),
		periods:  NewGormPeriodRepository(db),
		moves:    NewGormMoveRepository(db),
		company:  company,
	}
}

// FindLastPostedDepreciationDate returns the latest ledger line date of the
// asset on accountID, or a zero Date when there is none
func (s *GormLedgerStore) FindLastPostedDepreciationDate(ctx context.Context, tenantID, assetID, accountID uuid.UUID) (valueobject.Date, error) {
	return s.moves.MaxLineDateByAssetAccount(ctx, tenantID, assetID, accountID)
}

// FindPeriodCovering returns the open period containing date
func (s *GormLedgerStore) FindPeriodCovering(ctx context.Context, tenantID uuid.UUID, date valueobject.Date) (uuid.UUID, error) {
	period, err := s.periods.FindCovering(ctx, tenantID, date)
	if err != nil {
		return uuid.Nil, err
	}
	if !period.IsOpen() {
		return uuid.Nil, ledger.ErrPeriodClosed
	}
	return period.ID, nil
}

// JournalType returns the type of a journal
func (s *GormLedgerStore) JournalType(ctx context.Context, tenantID, journalID uuid.UUID) (ledger.JournalType, error) {
	journal, err := s.journals.FindByIDForTenant(ctx, tenantID, journalID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", shared.NewDomainErrorf(asset.CodeMissingAccount, "Journal %s does not exist", journalID)
		}
		return "", err
	}
	return journal.Type, nil
}

// CreateMove posts the move and persists it with all of its lines
func (s *GormLedgerStore) CreateMove(ctx context.Context, move *ledger.Move) (uuid.UUID, error) {
	if err := move.Post(s.company); err != nil {
		return uuid.Nil, err
	}
	if err := s.moves.Create(ctx, move); err != nil {
		return uuid.Nil, err
	}
	return move.ID, nil
}

// ReverseAndDeleteMove retracts a move by removing it with its lines
func (s *GormLedgerStore) ReverseAndDeleteMove(ctx context.Context, tenantID, moveID uuid.UUID) error {
	if err := s.moves.Delete(ctx, tenantID, moveID); err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	return nil
}

// SumAssetDepreciation returns the sum of |debit - credit| over the asset's
// ledger lines on accountID, in company currency
func (s *GormLedgerStore) SumAssetDepreciation(ctx context.Context, tenantID, assetID, accountID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	row := s.db.WithContext(ctx).
		Model(&models.MoveLineModel{}).
		Select("SUM(ABS(debit - credit))").
		Where("tenant_id = ? AND asset_id = ? AND account_id = ?", tenantID, assetID, accountID).
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// CountAssetEntries counts ledger lines linked to the asset
func (s *GormLedgerStore) CountAssetEntries(ctx context.Context, tenantID, assetID uuid.UUID) (int64, error) {
	return s.moves.CountLinesByAsset(ctx, tenantID, assetID)
}

var _ asset.LedgerGateway = (*GormLedgerStore)(nil)
