// Package cli implements the assetctl command line tool.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	appasset "github.com/erp/depreciation/internal/application/asset"
	ledgerapp "github.com/erp/depreciation/internal/application/ledger"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// PeriodPoster generates the depreciation moves of a period
type PeriodPoster interface {
	ComputeEntriesForPeriod(ctx context.Context, tenantID, periodID uuid.UUID, categoryID *uuid.UUID) ([]uuid.UUID, error)
}

// ResidualReader reports the residual value of an asset
type ResidualReader interface {
	Residual(ctx context.Context, tenantID, id uuid.UUID) (*appasset.ResidualResponse, error)
}

// RateCreator records currency rates
type RateCreator interface {
	CreateCurrencyRate(ctx context.Context, tenantID uuid.UUID, req ledgerapp.CreateCurrencyRateRequest) (*ledgerapp.CurrencyRateResponse, error)
}

// Services are the application services the database-backed commands use
type Services struct {
	Poster   PeriodPoster
	Residual ResidualReader
	Rates    RateCreator
	// DefaultTenantID is used when --tenant is not given
	DefaultTenantID uuid.UUID
}

// Opener connects to the database and returns the services plus a release
// function
type Opener func(ctx context.Context, configPath string) (*Services, func(), error)

type options struct {
	configPath string
	tenant     string
	output     string
	open       Opener
}

// NewRootCommand creates the root command with all subcommands registered
func NewRootCommand(version string, open Opener) *cobra.Command {
	opts := &options{open: open}

	rootCmd := &cobra.Command{
		Use:     "assetctl",
		Short:   "Fixed asset depreciation tool",
		Version: version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config.toml")
	rootCmd.PersistentFlags().StringVar(&opts.tenant, "tenant", "", "tenant id (defaults to company.default_tenant_id)")
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "table", "output format: table or json")

	rootCmd.AddCommand(newPreviewCommand(opts))
	rootCmd.AddCommand(newPostPeriodCommand(opts))
	rootCmd.AddCommand(newResidualCommand(opts))
	rootCmd.AddCommand(newImportRatesCommand(opts))

	return rootCmd
}

func (o *options) validateOutput() error {
	if o.output != "table" && o.output != "json" {
		return fmt.Errorf("unknown output format %q", o.output)
	}
	return nil
}

func (o *options) tenantID(svc *Services) (uuid.UUID, error) {
	if o.tenant == "" {
		if svc.DefaultTenantID == uuid.Nil {
			return uuid.Nil, fmt.Errorf("--tenant is required when no default tenant is configured")
		}
		return svc.DefaultTenantID, nil
	}
	id, err := uuid.Parse(o.tenant)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid tenant id %q: %w", o.tenant, err)
	}
	return id, nil
}

func (o *options) services(ctx context.Context) (*Services, func(), error) {
	if o.open == nil {
		return nil, nil, fmt.Errorf("no database configured")
	}
	return o.open(ctx, o.configPath)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
