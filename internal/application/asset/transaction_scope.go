package asset

import (
	"context"

	"github.com/erp/depreciation/internal/domain/asset"
)

// TransactionScope runs a unit of work in one database transaction.
// If fn returns an error the transaction is rolled back, otherwise it is
// committed.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories that share the current
// transaction. Ledger moves created through Ledger() commit or roll back
// together with the line and asset state changes.
type TransactionalRepositories interface {
	AssetRepo() asset.AssetRepository
	LineRepo() asset.LineRepository
	HistoryRepo() asset.HistoryRepository
	Ledger() asset.LedgerGateway
}

// NoOpTransactionScope runs fn directly against the given repositories.
// Used in tests and tools that do not need atomicity.
type NoOpTransactionScope struct {
	assetRepo   asset.AssetRepository
	lineRepo    asset.LineRepository
	historyRepo asset.HistoryRepository
	ledger      asset.LedgerGateway
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(
	assetRepo asset.AssetRepository,
	lineRepo asset.LineRepository,
	historyRepo asset.HistoryRepository,
	ledger asset.LedgerGateway,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		assetRepo:   assetRepo,
		lineRepo:    lineRepo,
		historyRepo: historyRepo,
		ledger:      ledger,
	}
}

// Execute runs fn without a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// AssetRepo returns the asset repository
func (s *NoOpTransactionScope) AssetRepo() asset.AssetRepository { return s.assetRepo }

// LineRepo returns the depreciation line repository
func (s *NoOpTransactionScope) LineRepo() asset.LineRepository { return s.lineRepo }

// HistoryRepo returns the history repository
func (s *NoOpTransactionScope) HistoryRepo() asset.HistoryRepository { return s.historyRepo }

// Ledger returns the ledger gateway
func (s *NoOpTransactionScope) Ledger() asset.LedgerGateway { return s.ledger }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
