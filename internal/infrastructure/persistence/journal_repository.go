package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/depreciation/internal/domain/ledger"
	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/erp/depreciation/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormJournalRepository implements ledger.JournalRepository using GORM
type GormJournalRepository struct {
	db *gorm.DB
}

// NewGormJournalRepository creates a new GormJournalRepository
func NewGormJournalRepository(db *gorm.DB) *GormJournalRepository {
	return &GormJournalRepository{db: db}
}

// FindByID finds a journal by its ID
func (r *GormJournalRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Journal, error) {
	var model models.JournalModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a journal by ID within a tenant
func (r *GormJournalRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Journal, error) {
	var model models.JournalModel
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

// FindAllForTenant lists journals for a tenant
func (r *GormJournalRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ledger.Journal, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.JournalModel{}).Where("tenant_id = ?", tenantID)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("(code ILIKE ? OR name ILIKE ?)", pattern, pattern)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.JournalModel
	if err := paginate(query, filter, JournalSortFields, "code").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	journals := make([]ledger.Journal, len(rows))
	for i := range rows {
		journals[i] = *rows[i].ToDomain()
	}
	return journals, total, nil
}

// Save creates or updates a journal
func (r *GormJournalRepository) Save(ctx context.Context, journal *ledger.Journal) error {
	return r.db.WithContext(ctx).Save(models.JournalModelFromDomain(journal)).Error
}

// paginate applies whitelisted ordering and limit/offset from a shared filter
func paginate(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	sortField := ValidateSortField(filter.OrderBy, allowed, defaultField)
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

var _ ledger.JournalRepository = (*GormJournalRepository)(nil)
