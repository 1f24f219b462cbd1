package persistence

import (
	"context"

	"github.com/erp/depreciation/internal/domain/asset"
	"github.com/erp/depreciation/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSequenceRepository implements asset.CodeSequence with a counter row per
// tenant and sequence name. The increment is a single upsert so concurrent
// callers never receive the same number.
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new GormSequenceRepository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

// Next returns the next number of the named sequence, starting at 1
func (r *GormSequenceRepository) Next(ctx context.Context, tenantID uuid.UUID, name string) (int64, error) {
	var next int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := &models.SequenceModel{TenantID: tenantID, Name: name, Value: 1}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tenant_id"}, {Name: "name"}},
			DoUpdates: clause.Assignments(map[string]any{
				"value": gorm.Expr("asset_sequences.value + 1"),
			}),
		}).Create(row).Error; err != nil {
			return err
		}
		var current models.SequenceModel
		if err := tx.Where("tenant_id = ? AND name = ?", tenantID, name).First(&current).Error; err != nil {
			return err
		}
		next = current.Value
		return nil
	})
	return next, err
}

var _ asset.CodeSequence = (*GormSequenceRepository)(nil)
