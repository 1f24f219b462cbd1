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

// GormCurrencyRateRepository implements ledger.CurrencyRateRepository using GORM
type GormCurrencyRateRepository struct {
	db *gorm.DB
}

// NewGormCurrencyRateRepository creates a new GormCurrencyRateRepository
func NewGormCurrencyRateRepository(db *gorm.DB) *GormCurrencyRateRepository {
	return &GormCurrencyRateRepository{db: db}
}

// FindEffective returns the latest rate for currency effective on or before date
func (r *GormCurrencyRateRepository) FindEffective(ctx context.Context, tenantID uuid.UUID, currency valueobject.Currency, date valueobject.Date) (*ledger.CurrencyRate, error) {
	var model models.CurrencyRateModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND currency = ? AND effective_date <= ?", tenantID, currency, date).
		Order("effective_date DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrRateNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists rates for a tenant
func (r *GormCurrencyRateRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ledger.CurrencyRate, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CurrencyRateModel{}).Where("tenant_id = ?", tenantID)
	if currency, ok := filter.Filters["currency"]; ok {
		query = query.Where("currency = ?", currency)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.CurrencyRateModel
	if err := paginate(query, filter, CurrencyRateSortFields, "effective_date").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	rates := make([]ledger.CurrencyRate, len(rows))
	for i := range rows {
		rates[i] = *rows[i].ToDomain()
	}
	return rates, total, nil
}

// Save creates or updates a rate
func (r *GormCurrencyRateRepository) Save(ctx context.Context, rate *ledger.CurrencyRate) error {
	return r.db.WithContext(ctx).Save(models.CurrencyRateModelFromDomain(rate)).Error
}

var _ ledger.CurrencyRateRepository = (*GormCurrencyRateRepository)(nil)
