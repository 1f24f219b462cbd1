package cli

import (
	"fmt"
	"os"

	ledgerapp "github.com/erp/depreciation/internal/application/ledger"
	"github.com/erp/depreciation/internal/infrastructure/csvimport"
	"github.com/spf13/cobra"
)

type importRatesResult struct {
	Imported  int                  `json:"imported"`
	Failed    int                  `json:"failed"`
	DryRun    bool                 `json:"dry_run"`
	Errors    []csvimport.RowError `json:"errors,omitempty"`
	Truncated bool                 `json:"truncated,omitempty"`
}

func newImportRatesCommand(opts *options) *cobra.Command {
	var (
		dryRun    bool
		maxErrors int
	)

	cmd := &cobra.Command{
		Use:   "import-rates <file>",
		Short: "Import currency rates from a CSV file",
		Long: `Import currency rates from a CSV file with the columns
currency, rate and effective_date. A rate is units of the currency per
unit of company currency. Nothing is written when any row is invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validateOutput(); err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			records, rowErrs, err := csvimport.ReadCurrencyRates(f, maxErrors)
			if err != nil {
				return err
			}

			result := importRatesResult{DryRun: dryRun, Failed: rowErrs.TotalCount()}
			if rowErrs.HasErrors() {
				result.Errors = rowErrs.Errors()
				result.Truncated = rowErrs.IsTruncated()
				if err := printImportResult(cmd, opts, result); err != nil {
					return err
				}
				return fmt.Errorf("%d invalid row(s), nothing imported", rowErrs.TotalCount())
			}

			if dryRun {
				result.Imported = len(records)
				return printImportResult(cmd, opts, result)
			}

			svc, release, err := opts.services(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			tenantID, err := opts.tenantID(svc)
			if err != nil {
				return err
			}
			for _, rec := range records {
				_, err := svc.Rates.CreateCurrencyRate(cmd.Context(), tenantID, ledgerapp.CreateCurrencyRateRequest{
					Currency:      string(rec.Currency),
					Rate:          rec.Rate,
					EffectiveDate: rec.EffectiveDate,
				})
				if err != nil {
					return fmt.Errorf("row %d: %w", rec.Row, err)
				}
				result.Imported++
			}
			return printImportResult(cmd, opts, result)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the file without writing")
	cmd.Flags().IntVar(&maxErrors, "max-errors", 100, "maximum row errors to report")

	return cmd
}

func printImportResult(cmd *cobra.Command, opts *options, result importRatesResult) error {
	out := cmd.OutOrStdout()
	if opts.output == "json" {
		return writeJSON(out, result)
	}
	for _, e := range result.Errors {
		fmt.Fprintln(out, e.Error())
	}
	if result.Truncated {
		fmt.Fprintf(out, "... and %d more\n", result.Failed-len(result.Errors))
	}
	switch {
	case result.Failed > 0:
		fmt.Fprintf(out, "%d invalid row(s)\n", result.Failed)
	case result.DryRun:
		fmt.Fprintf(out, "%d rate(s) valid, dry run\n", result.Imported)
	default:
		fmt.Fprintf(out, "Imported %d rate(s)\n", result.Imported)
	}
	return nil
}
