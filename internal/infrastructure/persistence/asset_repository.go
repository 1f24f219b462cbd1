package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/depreciation/internal/domain/asset"
	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/erp/depreciation/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAssetRepository implements asset.AssetRepository using GORM
type GormAssetRepository struct {
	db *gorm.DB
}

// NewGormAssetRepository creates a new GormAssetRepository
func NewGormAssetRepository(db *gorm.DB) *GormAssetRepository {
	return &GormAssetRepository{db: db}
}

// FindByIDForTenant finds an asset by ID within a tenant
func (r *GormAssetRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*asset.Asset, error) {
	var model models.AssetModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs loads several assets at once, keyed by ID
func (r *GormAssetRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*asset.Asset, error) {
	out := make(map[uuid.UUID]*asset.Asset, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.AssetModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].ID] = rows[i].ToDomain()
	}
	return out, nil
}

// FindAllForTenant lists assets for a tenant with the total count before pagination
func (r *GormAssetRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter asset.AssetFilter) ([]asset.Asset, int64, error) {
	base := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.AssetModel{}).Where("tenant_id = ?", tenantID), filter)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.AssetModel
	if err := r.applyPagination(base, filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toAssets(rows), total, nil
}

// FindChildren lists the direct children of an asset
func (r *GormAssetRepository) FindChildren(ctx context.Context, tenantID, parentID uuid.UUID) ([]asset.Asset, error) {
	var rows []models.AssetModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND parent_id = ?", tenantID, parentID).
		Order("code ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toAssets(rows), nil
}

// FindParentID returns the parent of an asset, nil for a root
func (r *GormAssetRepository) FindParentID(ctx context.Context, tenantID, id uuid.UUID) (*uuid.UUID, error) {
	var model models.AssetModel
	if err := r.db.WithContext(ctx).
		Select("id", "parent_id").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ParentID, nil
}

// FindOpenIDs lists the open assets of a tenant, optionally restricted to one category
func (r *GormAssetRepository) FindOpenIDs(ctx context.Context, tenantID uuid.UUID, categoryID *uuid.UUID) ([]uuid.UUID, error) {
	query := r.db.WithContext(ctx).
		Model(&models.AssetModel{}).
		Where("tenant_id = ? AND state = ?", tenantID, asset.AssetStateOpen)
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	var ids []uuid.UUID
	if err := query.Order("code ASC").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ExistsByCode reports whether a code is already used by the tenant
func (r *GormAssetRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AssetModel{}).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an asset
func (r *GormAssetRepository) Save(ctx context.Context, a *asset.Asset) error {
	return r.db.WithContext(ctx).Save(models.AssetModelFromDomain(a)).Error
}

// SaveWithLock saves the asset with optimistic locking
func (r *GormAssetRepository) SaveWithLock(ctx context.Context, a *asset.Asset) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.AssetModel
		if err := tx.Select("version").Where("id = ?", a.GetID()).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return tx.Create(models.AssetModelFromDomain(a)).Error
			}
			return err
		}

		// the domain model has already incremented its version
		expectedVersion := a.GetVersion() - 1
		if current.Version != expectedVersion {
			return shared.NewDomainError("VERSION_CONFLICT", "Asset has been modified by another user")
		}

		model := models.AssetModelFromDomain(a)
		result := tx.Model(model).
			Where("id = ? AND version = ?", a.GetID(), expectedVersion).
			Save(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("VERSION_CONFLICT", "Asset has been modified by another user")
		}
		return nil
	})
}

// Delete removes an asset together with its draft lines and history
func (r *GormAssetRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND asset_id = ? AND state = ?", tenantID, id, asset.LineStateDraft).
			Delete(&models.DepreciationLineModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("tenant_id = ? AND asset_id = ?", tenantID, id).
			Delete(&models.AssetHistoryModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.AssetModel{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *GormAssetRepository) applyPagination(query *gorm.DB, filter asset.AssetFilter) *gorm.DB {
	sortField := ValidateSortField(filter.OrderBy, AssetSortFields, "code")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if offset := filter.Offset(); offset > 0 {
			query = query.Offset(offset)
		}
	}
	return query
}

func (r *GormAssetRepository) applyFilterWithoutPagination(query *gorm.DB, filter asset.AssetFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("(code ILIKE ? OR name ILIKE ?)", pattern, pattern)
	}
	if filter.State != nil {
		query = query.Where("state = ?", *filter.State)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.ParentID != nil {
		query = query.Where("parent_id = ?", *filter.ParentID)
	}
	return query
}

func toAssets(rows []models.AssetModel) []asset.Asset {
	assets := make([]asset.Asset, len(rows))
	for i := range rows {
		assets[i] = *rows[i].ToDomain()
	}
	return assets
}

var _ asset.AssetRepository = (*GormAssetRepository)(nil)
