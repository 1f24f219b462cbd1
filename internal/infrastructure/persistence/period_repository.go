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

// GormPeriodRepository implements ledger.PeriodRepository using GORM
type GormPeriodRepository struct {
	db *gorm.DB
}

// NewGormPeriodRepository creates a new GormPeriodRepository
func NewGormPeriodRepository(db *gorm.DB) *GormPeriodRepository {
	return &GormPeriodRepository{db: db}
}

// FindByIDForTenant finds a period by ID within a tenant
func (r *GormPeriodRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Period, error) {
	var model models.PeriodModel
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

// FindCovering returns the non-special period containing date. When periods
// overlap the one starting last wins.
func (r *GormPeriodRepository) FindCovering(ctx context.Context, tenantID uuid.UUID, date valueobject.Date) (*ledger.Period, error) {
	var model models.PeriodModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND special = ?", tenantID, false).
		Where("date_start <= ? AND date_stop >= ?", date, date).
		Order("date_start DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrPeriodNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists periods for a tenant, by start date unless ordered otherwise
func (r *GormPeriodRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ledger.Period, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PeriodModel{}).Where("tenant_id = ?", tenantID)
	if state, ok := filter.Filters["state"]; ok {
		query = query.Where("state = ?", state)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.OrderBy == "" {
		filter.OrderBy = "date_start"
		filter.OrderDir = "asc"
	}
	var rows []models.PeriodModel
	if err := paginate(query, filter, PeriodSortFields, "date_start").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	periods := make([]ledger.Period, len(rows))
	for i := range rows {
		periods[i] = *rows[i].ToDomain()
	}
	return periods, total, nil
}

// FindOpenEndedBefore returns open, non-special periods whose stop date is before date
func (r *GormPeriodRepository) FindOpenEndedBefore(ctx context.Context, tenantID uuid.UUID, date valueobject.Date) ([]ledger.Period, error) {
	var rows []models.PeriodModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND special = ? AND state = ?", tenantID, false, ledger.PeriodStateOpen).
		Where("date_stop < ?", date).
		Order("date_start ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	periods := make([]ledger.Period, len(rows))
	for i := range rows {
		periods[i] = *rows[i].ToDomain()
	}
	return periods, nil
}

// Save creates or updates a period
func (r *GormPeriodRepository) Save(ctx context.Context, period *ledger.Period) error {
	return r.db.WithContext(ctx).Save(models.PeriodModelFromDomain(period)).Error
}

var _ ledger.PeriodRepository = (*GormPeriodRepository)(nil)
