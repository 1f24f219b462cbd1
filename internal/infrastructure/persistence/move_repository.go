package persistence

import (
	"context"
	"errors"

	"github.com/erp/depreciation/internal/domain/ledger"
	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/erp/depreciation/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMoveRepository implements ledger.MoveRepository using GORM
type GormMoveRepository struct {
	db *gorm.DB
}

// NewGormMoveRepository creates a new GormMoveRepository
func NewGormMoveRepository(db *gorm.DB) *GormMoveRepository {
	return &GormMoveRepository{db: db}
}

// FindByIDForTenant loads a move with its lines
func (r *GormMoveRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Move, error) {
	var model models.MoveModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("debit DESC, created_at ASC")
		}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create inserts the move header and all of its lines
func (r *GormMoveRepository) Create(ctx context.Context, move *ledger.Move) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Create(models.MoveModelFromDomain(move)).Error; err != nil {
			return err
		}
		if len(move.Lines) == 0 {
			return nil
		}
		lines := make([]*models.MoveLineModel, len(move.Lines))
		for i := range move.Lines {
			lines[i] = models.MoveLineModelFromDomain(move.TenantID, &move.Lines[i])
		}
		return tx.Create(lines).Error
	})
}

// Delete removes the move and its lines
func (r *GormMoveRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND move_id = ?", tenantID, id).
			Delete(&models.MoveLineModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.MoveModel{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindLinesByAsset returns every move line linked to the asset, oldest first
func (r *GormMoveRepository) FindLinesByAsset(ctx context.Context, tenantID, assetID uuid.UUID) ([]ledger.MoveLine, error) {
	var rows []models.MoveLineModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND asset_id = ?", tenantID, assetID).
		Order("date ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	lines := make([]ledger.MoveLine, len(rows))
	for i := range rows {
		lines[i] = rows[i].ToDomain()
	}
	return lines, nil
}

// CountLinesByAsset counts move lines linked to the asset
func (r *GormMoveRepository) CountLinesByAsset(ctx context.Context, tenantID, assetID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.MoveLineModel{}).
		Where("tenant_id = ? AND asset_id = ?", tenantID, assetID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// MaxLineDateByAssetAccount returns the latest line date on accountID for the
// asset, or a zero Date when there is none
func (r *GormMoveRepository) MaxLineDateByAssetAccount(ctx context.Context, tenantID, assetID, accountID uuid.UUID) (valueobject.Date, error) {
	var last valueobject.Date
	row := r.db.WithContext(ctx).
		Model(&models.MoveLineModel{}).
		Select("MAX(date)").
		Where("tenant_id = ? AND asset_id = ? AND account_id = ?", tenantID, assetID, accountID).
		Row()
	if err := row.Scan(&last); err != nil {
		return valueobject.Date{}, err
	}
	return last, nil
}

var _ ledger.MoveRepository = (*GormMoveRepository)(nil)
