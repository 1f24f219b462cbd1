package telemetry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAssetMetricsProvider implements AssetMetricsProvider on the assets table
type GormAssetMetricsProvider struct {
	db *gorm.DB
}

// NewGormAssetMetricsProvider creates a new GormAssetMetricsProvider
func NewGormAssetMetricsProvider(db *gorm.DB) *GormAssetMetricsProvider {
	return &GormAssetMetricsProvider{db: db}
}

// CountAssetsByState returns the number of active assets per state
func (p *GormAssetMetricsProvider) CountAssetsByState(ctx context.Context, tenantID uuid.UUID) (map[string]int64, error) {
	type row struct {
		State string `gorm:"column:state"`
		Total int64  `gorm:"column:total"`
	}
	var rows []row
	err := p.db.WithContext(ctx).
		Table("assets").
		Select("state, COUNT(*) AS total").
		Where("tenant_id = ? AND active = ?", tenantID, true).
		Group("state").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.State] = r.Total
	}
	return counts, nil
}

// GormTenantProvider lists the tenants owning at least one asset
type GormTenantProvider struct {
	db *gorm.DB
}

// NewGormTenantProvider creates a new GormTenantProvider
func NewGormTenantProvider(db *gorm.DB) *GormTenantProvider {
	return &GormTenantProvider{db: db}
}

// GetActiveTenantIDs returns the distinct tenant ids of the assets table
func (p *GormTenantProvider) GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := p.db.WithContext(ctx).
		Table("assets").
		Distinct("tenant_id").
		Pluck("tenant_id", &ids).Error
	return ids, err
}
