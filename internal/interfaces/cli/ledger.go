package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// postPeriodResult is the json output of post-period
type postPeriodResult struct {
	PeriodID uuid.UUID   `json:"period_id"`
	MoveIDs  []uuid.UUID `json:"move_ids"`
	Count    int         `json:"count"`
}

func newPostPeriodCommand(opts *options) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "post-period <period-id>",
		Short: "Post every draft depreciation line falling inside a period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validateOutput(); err != nil {
				return err
			}
			periodID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid period id %q: %w", args[0], err)
			}
			var categoryID *uuid.UUID
			if category != "" {
				id, err := uuid.Parse(category)
				if err != nil {
					return fmt.Errorf("invalid category id %q: %w", category, err)
				}
				categoryID = &id
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

			moveIDs, err := svc.Poster.ComputeEntriesForPeriod(cmd.Context(), tenantID, periodID, categoryID)
			if err != nil {
				return err
			}
			if moveIDs == nil {
				moveIDs = []uuid.UUID{}
			}

			if opts.output == "json" {
				return writeJSON(cmd.OutOrStdout(), postPeriodResult{PeriodID: periodID, MoveIDs: moveIDs, Count: len(moveIDs)})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Posted %d move(s) for period %s\n", len(moveIDs), periodID)
			for _, id := range moveIDs {
				fmt.Fprintf(out, "  %s\n", id)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only post assets of this category")

	return cmd
}

func newResidualCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "residual <asset-id>",
		Short: "Show the residual value of an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validateOutput(); err != nil {
				return err
			}
			assetID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid asset id %q: %w", args[0], err)
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

			res, err := svc.Residual.Residual(cmd.Context(), tenantID, assetID)
			if err != nil {
				return err
			}

			if opts.output == "json" {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Asset\t%s\n", res.AssetID)
			fmt.Fprintf(tw, "Purchase value\t%s\n", res.PurchaseValue.StringFixed(2))
			fmt.Fprintf(tw, "Salvage value\t%s\n", res.SalvageValue.StringFixed(2))
			fmt.Fprintf(tw, "Depreciated\t%s\n", res.Depreciated.StringFixed(2))
			fmt.Fprintf(tw, "Residual\t%s\n", res.Residual)
			fmt.Fprintf(tw, "Fully depreciated\t%t\n", res.FullyDepr)
			return tw.Flush()
		},
	}
}
