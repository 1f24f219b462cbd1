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

// GormAssetCategoryRepository implements asset.CategoryRepository using GORM
type GormAssetCategoryRepository struct {
	db *gorm.DB
}

// NewGormAssetCategoryRepository creates a new GormAssetCategoryRepository
func NewGormAssetCategoryRepository(db *gorm.DB) *GormAssetCategoryRepository {
	return &GormAssetCategoryRepository{db: db}
}

// FindByIDForTenant finds a category by ID within a tenant
func (r *GormAssetCategoryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*asset.Category, error) {
	var model models.AssetCategoryModel
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

// FindAllForTenant lists categories for a tenant with the total count before pagination
func (r *GormAssetCategoryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter asset.CategoryFilter) ([]asset.Category, int64, error) {
	base := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.AssetCategoryModel{}).Where("tenant_id = ?", tenantID), filter)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.AssetCategoryModel
	if err := r.applyPagination(base, filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	categories := make([]asset.Category, len(rows))
	for i := range rows {
		categories[i] = *rows[i].ToDomain()
	}
	return categories, total, nil
}

// FindByIDs loads several categories at once, keyed by ID
func (r *GormAssetCategoryRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*asset.Category, error) {
	out := make(map[uuid.UUID]*asset.Category, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.AssetCategoryModel
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

// Save creates or updates a category
func (r *GormAssetCategoryRepository) Save(ctx context.Context, category *asset.Category) error {
	return r.db.WithContext(ctx).Save(models.AssetCategoryModelFromDomain(category)).Error
}

// Delete removes a category within a tenant
func (r *GormAssetCategoryRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AssetCategoryModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormAssetCategoryRepository) applyPagination(query *gorm.DB, filter asset.CategoryFilter) *gorm.DB {
	sortField := ValidateSortField(filter.OrderBy, AssetCategorySortFields, "name")
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

func (r *GormAssetCategoryRepository) applyFilterWithoutPagination(query *gorm.DB, filter asset.CategoryFilter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.ParentID != nil {
		query = query.Where("parent_id = ?", *filter.ParentID)
	}
	return query
}

var _ asset.CategoryRepository = (*GormAssetCategoryRepository)(nil)
