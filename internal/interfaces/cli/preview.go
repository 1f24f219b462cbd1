package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/erp/depreciation/internal/domain/asset"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type previewFlags struct {
	code         string
	value        string
	salvage      string
	purchaseDate string
	currency     string
	method       string
	number       int
	period       int
	methodTime   string
	end          string
	factor       string
	prorata      bool
}

// previewLine is one row of a previewed board
type previewLine struct {
	Sequence         int              `json:"sequence"`
	Name             string           `json:"name"`
	DepreciationDate valueobject.Date `json:"depreciation_date"`
	Amount           decimal.Decimal  `json:"amount"`
	DepreciatedValue decimal.Decimal  `json:"depreciated_value"`
	RemainingValue   decimal.Decimal  `json:"remaining_value"`
}

func newPreviewCommand(opts *options) *cobra.Command {
	f := &previewFlags{}

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Compute a depreciation board without touching the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.validateOutput(); err != nil {
				return err
			}
			lines, err := runPreview(f)
			if err != nil {
				return err
			}
			if opts.output == "json" {
				return writeJSON(cmd.OutOrStdout(), lines)
			}
			return printBoard(cmd.OutOrStdout(), lines)
		},
	}

	cmd.Flags().StringVar(&f.code, "code", "PREVIEW", "asset code used to name the lines")
	cmd.Flags().StringVar(&f.value, "value", "", "purchase value (required)")
	_ = cmd.MarkFlagRequired("value")
	cmd.Flags().StringVar(&f.salvage, "salvage", "0", "salvage value")
	cmd.Flags().StringVar(&f.purchaseDate, "date", "", "purchase date, YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("date")
	cmd.Flags().StringVar(&f.currency, "currency", "EUR", "asset currency")
	cmd.Flags().StringVar(&f.method, "method", string(asset.MethodLinear), "computation method: linear or degressive")
	cmd.Flags().IntVar(&f.number, "number", asset.DefaultMethodNumber, "number of depreciations")
	cmd.Flags().IntVar(&f.period, "period", asset.DefaultMethodPeriod, "months between two depreciations")
	cmd.Flags().StringVar(&f.methodTime, "time", string(asset.MethodTimeNumber), "time method: number or end")
	cmd.Flags().StringVar(&f.end, "end", "", "ending date for the end time method, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.factor, "factor", asset.DefaultProgressFactor.String(), "degressive factor, 0.3 means 30%")
	cmd.Flags().BoolVar(&f.prorata, "prorata", false, "prorate the first period by days")

	return cmd
}

func runPreview(f *previewFlags) ([]previewLine, error) {
	value, err := decimal.NewFromString(f.value)
	if err != nil {
		return nil, fmt.Errorf("invalid purchase value %q: %w", f.value, err)
	}
	salvage, err := decimal.NewFromString(f.salvage)
	if err != nil {
		return nil, fmt.Errorf("invalid salvage value %q: %w", f.salvage, err)
	}
	factor, err := decimal.NewFromString(f.factor)
	if err != nil {
		return nil, fmt.Errorf("invalid degressive factor %q: %w", f.factor, err)
	}
	purchaseDate, err := valueobject.ParseDate(f.purchaseDate)
	if err != nil {
		return nil, fmt.Errorf("invalid purchase date: %w", err)
	}
	var end valueobject.Date
	if f.end != "" {
		if end, err = valueobject.ParseDate(f.end); err != nil {
			return nil, fmt.Errorf("invalid ending date: %w", err)
		}
	}
	currency, err := valueobject.ParseCurrency(f.currency)
	if err != nil {
		return nil, err
	}

	tenantID := uuid.New()
	category, err := asset.NewCategory(tenantID, "Preview")
	if err != nil {
		return nil, err
	}
	params := asset.DepreciationParams{
		Method:               asset.Method(f.method),
		MethodNumber:         f.number,
		MethodPeriod:         f.period,
		MethodTime:           asset.MethodTime(f.methodTime),
		MethodEnd:            end,
		MethodProgressFactor: factor,
		Prorata:              f.prorata,
	}

	a, err := asset.NewAsset(tenantID, asset.NewAssetInput{
		Code:          f.code,
		Name:          f.code,
		Category:      category,
		Currency:      currency,
		PurchaseValue: value,
		SalvageValue:  salvage,
		PurchaseDate:  purchaseDate,
		Params:        &params,
	})
	if err != nil {
		return nil, err
	}

	schedule, err := asset.BuildSchedule(a, asset.ScheduleInput{
		ValueResidual: value.Sub(salvage),
	})
	if err != nil {
		return nil, err
	}

	lines := make([]previewLine, 0, len(schedule.Lines))
	for _, l := range schedule.Lines {
		lines = append(lines, previewLine{
			Sequence:         l.Sequence,
			Name:             l.Name,
			DepreciationDate: l.DepreciationDate,
			Amount:           l.Amount,
			DepreciatedValue: l.DepreciatedValue,
			RemainingValue:   l.RemainingValue,
		})
	}
	return lines, nil
}

func printBoard(w io.Writer, lines []previewLine) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tDate\tAmount\tDepreciated\tResidual\t")
	total := decimal.Zero
	for _, l := range lines {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t\n",
			l.Sequence, l.DepreciationDate, l.Amount.StringFixed(2),
			l.DepreciatedValue.StringFixed(2), l.RemainingValue.StringFixed(2))
		total = total.Add(l.Amount)
	}
	fmt.Fprintf(tw, "\tTotal\t%s\t\t\t\n", total.StringFixed(2))
	return tw.Flush()
}
