package persistence

import (
	"context"

	appasset "github.com/erp/depreciation/internal/application/asset"
	"github.com/erp/depreciation/internal/domain/asset"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Depreciation lines, asset state, history and ledger moves written inside
// one Execute call commit or roll back together.
type GormTransactionScope struct {
	db      *gorm.DB
	company valueobject.Currency
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB, company valueobject.Currency) *GormTransactionScope {
	return &GormTransactionScope{db: db, company: company}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appasset.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx, company: s.company})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx      *gorm.DB
	company valueobject.Currency
}

// AssetRepo returns the asset repository scoped to the current transaction.
func (r *gormTransactionalRepositories) AssetRepo() asset.AssetRepository {
	return NewGormAssetRepository(r.tx)
}

// LineRepo returns the depreciation line repository scoped to the current transaction.
func (r *gormTransactionalRepositories) LineRepo() asset.LineRepository {
	return NewGormDepreciationLineRepository(r.tx)
}

// HistoryRepo returns the history repository scoped to the current transaction.
func (r *gormTransactionalRepositories) HistoryRepo() asset.HistoryRepository {
	return NewGormAssetHistoryRepository(r.tx)
}

// Ledger returns the ledger store scoped to the current transaction.
func (r *gormTransactionalRepositories) Ledger() asset.LedgerGateway {
	return NewGormLedgerStore(r.tx, r.company)
}

var _ appasset.TransactionScope = (*GormTransactionScope)(nil)
var _ appasset.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
