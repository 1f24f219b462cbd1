package main

import (
	"context"
	"fmt"
	"os"

	assetapp "github.com/erp/depreciation/internal/application/asset"
	ledgerapp "github.com/erp/depreciation/internal/application/ledger"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/erp/depreciation/internal/infrastructure/cache"
	"github.com/erp/depreciation/internal/infrastructure/config"
	"github.com/erp/depreciation/internal/infrastructure/logger"
	"github.com/erp/depreciation/internal/infrastructure/persistence"
	"github.com/erp/depreciation/internal/interfaces/cli"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	rootCmd := cli.NewRootCommand(version, openServices)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openServices wires the posting and asset services against the configured
// database. Logs go to stderr so command output stays parseable.
func openServices(_ context.Context, configPath string) (*cli.Services, func(), error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		return nil, nil, err
	}
	release := func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
		_ = log.Sync()
	}

	company, err := valueobject.ParseCurrency(cfg.Company.Currency)
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("invalid company currency: %w", err)
	}
	var defaultTenant uuid.UUID
	if cfg.Company.DefaultTenantID != "" {
		if defaultTenant, err = uuid.Parse(cfg.Company.DefaultTenantID); err != nil {
			release()
			return nil, nil, fmt.Errorf("invalid default tenant id: %w", err)
		}
	}

	categoryRepo := persistence.NewGormAssetCategoryRepository(db.DB)
	assetRepo := persistence.NewGormAssetRepository(db.DB)
	lineRepo := persistence.NewGormDepreciationLineRepository(db.DB)
	historyRepo := persistence.NewGormAssetHistoryRepository(db.DB)
	periodRepo := persistence.NewGormPeriodRepository(db.DB)
	rateRepo := persistence.NewGormCurrencyRateRepository(db.DB)
	ledgerStore := persistence.NewGormLedgerStore(db.DB, company)
	txScope := persistence.NewGormTransactionScope(db.DB, company)
	currencyService := ledgerapp.NewCurrencyService(rateRepo, company)
	ledgerService := ledgerapp.NewLedgerService(
		persistence.NewGormJournalRepository(db.DB), periodRepo,
		persistence.NewGormMoveRepository(db.DB), rateRepo, log,
	)

	// the CLI shares locks with running servers only through Redis
	locker, err := cache.NewLockerFactory(cfg.Redis, cfg.Lock, cache.WithLogger(log)).CreateLocker()
	if err != nil {
		release()
		return nil, nil, err
	}

	postingService := assetapp.NewPostingService(
		categoryRepo, assetRepo, lineRepo, historyRepo, ledgerStore, periodRepo, currencyService, log,
	)
	postingService.SetTransactionScope(txScope)
	postingService.SetLocker(locker, cfg.Lock.TTL)

	assetService := assetapp.NewAssetService(
		categoryRepo, assetRepo, lineRepo, historyRepo, ledgerStore, currencyService,
		persistence.NewGormSequenceRepository(db.DB), log,
	)

	return &cli.Services{
		Poster:          postingService,
		Residual:        assetService,
		Rates:           ledgerService,
		DefaultTenantID: defaultTenant,
	}, release, nil
}
