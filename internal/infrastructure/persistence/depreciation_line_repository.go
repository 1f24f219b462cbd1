package persistence

import (
	"context"
	"errors"

	"github.com/erp/depreciation/internal/domain/asset"
	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/erp/depreciation/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// lineBatchSize bounds the rows sent in one INSERT when a board is regenerated
const lineBatchSize = 200

// GormDepreciationLineRepository implements asset.LineRepository using GORM
type GormDepreciationLineRepository struct {
	db *gorm.DB
}

// NewGormDepreciationLineRepository creates a new GormDepreciationLineRepository
func NewGormDepreciationLineRepository(db *gorm.DB) *GormDepreciationLineRepository {
	return &GormDepreciationLineRepository{db: db}
}

// FindByIDForTenant finds a line by ID within a tenant
func (r *GormDepreciationLineRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*asset.DepreciationLine, error) {
	var model models.DepreciationLineModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	line := model.ToDomain()
	return &line, nil
}

// FindByIDs loads several lines at once, ordered by asset and date
func (r *GormDepreciationLineRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]asset.DepreciationLine, error) {
	if len(ids) == 0 {
		return []asset.DepreciationLine{}, nil
	}
	var rows []models.DepreciationLineModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Order("asset_id ASC, depreciation_date ASC, sequence ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toLines(rows), nil
}

// FindByAsset lists every line of an asset, date descending then sequence ascending
func (r *GormDepreciationLineRepository) FindByAsset(ctx context.Context, tenantID, assetID uuid.UUID) ([]asset.DepreciationLine, error) {
	var rows []models.DepreciationLineModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND asset_id = ?", tenantID, assetID).
		Order("depreciation_date DESC, sequence ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toLines(rows), nil
}

// FindPosted lists the done and cancel lines of an asset, date descending
func (r *GormDepreciationLineRepository) FindPosted(ctx context.Context, tenantID, assetID uuid.UUID) ([]asset.DepreciationLine, error) {
	var rows []models.DepreciationLineModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND asset_id = ? AND state IN ?", tenantID, assetID,
			[]asset.LineState{asset.LineStateDone, asset.LineStateCancel}).
		Order("depreciation_date DESC, sequence DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toLines(rows), nil
}

// FindDraftInRange lists draft lines of the given assets dated within [start, stop]
func (r *GormDepreciationLineRepository) FindDraftInRange(ctx context.Context, tenantID uuid.UUID, assetIDs []uuid.UUID, start, stop valueobject.Date) ([]asset.DepreciationLine, error) {
	if len(assetIDs) == 0 {
		return []asset.DepreciationLine{}, nil
	}
	var rows []models.DepreciationLineModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND asset_id IN ? AND state = ?", tenantID, assetIDs, asset.LineStateDraft).
		Where("depreciation_date >= ? AND depreciation_date <= ?", start, stop).
		Order("asset_id ASC, depreciation_date ASC, sequence ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toLines(rows), nil
}

// DeleteDraftByAsset removes every draft line of an asset
func (r *GormDepreciationLineRepository) DeleteDraftByAsset(ctx context.Context, tenantID, assetID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND asset_id = ? AND state = ?", tenantID, assetID, asset.LineStateDraft).
		Delete(&models.DepreciationLineModel{}).Error
}

// SaveBatch inserts or updates lines
func (r *GormDepreciationLineRepository) SaveBatch(ctx context.Context, lines []asset.DepreciationLine) error {
	if len(lines) == 0 {
		return nil
	}
	rows := make([]*models.DepreciationLineModel, len(lines))
	for i := range lines {
		if lines[i].ID == uuid.Nil {
			lines[i].ID = uuid.New()
		}
		rows[i] = models.DepreciationLineModelFromDomain(&lines[i])
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for start := 0; start < len(rows); start += lineBatchSize {
			end := min(start+lineBatchSize, len(rows))
			if err := tx.Save(rows[start:end]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Save inserts or updates a single line
func (r *GormDepreciationLineRepository) Save(ctx context.Context, line *asset.DepreciationLine) error {
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Save(models.DepreciationLineModelFromDomain(line)).Error
}

// Delete removes a line within a tenant
func (r *GormDepreciationLineRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.DepreciationLineModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func toLines(rows []models.DepreciationLineModel) []asset.DepreciationLine {
	lines := make([]asset.DepreciationLine, len(rows))
	for i := range rows {
		lines[i] = rows[i].ToDomain()
	}
	return lines
}

var _ asset.LineRepository = (*GormDepreciationLineRepository)(nil)

// GormAssetHistoryRepository implements asset.HistoryRepository using GORM
type GormAssetHistoryRepository struct {
	db *gorm.DB
}

// NewGormAssetHistoryRepository creates a new GormAssetHistoryRepository
func NewGormAssetHistoryRepository(db *gorm.DB) *GormAssetHistoryRepository {
	return &GormAssetHistoryRepository{db: db}
}

// FindByAsset lists history entries, most recent first
func (r *GormAssetHistoryRepository) FindByAsset(ctx context.Context, tenantID, assetID uuid.UUID) ([]asset.History, error) {
	var rows []models.AssetHistoryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND asset_id = ?", tenantID, assetID).
		Order("date DESC, created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	entries := make([]asset.History, len(rows))
	for i := range rows {
		entries[i] = rows[i].ToDomain()
	}
	return entries, nil
}

// Create appends an entry
func (r *GormAssetHistoryRepository) Create(ctx context.Context, history *asset.History) error {
	if history.ID == uuid.Nil {
		history.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(models.AssetHistoryModelFromDomain(history)).Error
}

var _ asset.HistoryRepository = (*GormAssetHistoryRepository)(nil)
