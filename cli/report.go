package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ifore/utils"
)

type reportOptions struct {
	from   string
	to     string
	asJSON bool
}

func (cli *CLI) newReportCmd() *cobra.Command {
	opts := &reportOptions{}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print analytics reports to the terminal",
	}
	cmd.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "Print JSON instead of text")

	card := &cobra.Command{
		Use:   "card",
		Short: "Compare a date range with the range before it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, end, err := cli.dateRange(opts)
			if err != nil {
				return err
			}
			ctx := cli.logger.WithContext(cmd.Context())
			rt, err := cli.newRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			summary, err := rt.service.CardSummary(ctx, start, end)
			if err != nil {
				return err
			}
			return NewReporter(cmd.OutOrStdout(), opts.asJSON).Card(start, end, summary)
		},
	}

	categories := &cobra.Command{
		Use:   "categories",
		Short: "Units sold per category in a date range",
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, end, err := cli.dateRange(opts)
			if err != nil {
				return err
			}
			ctx := cli.logger.WithContext(cmd.Context())
			rt, err := cli.newRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			totals, err := rt.service.CategorySeries(ctx, start, end)
			if err != nil {
				return err
			}
			return NewReporter(cmd.OutOrStdout(), opts.asJSON).Categories(start, end, totals)
		},
	}

	for _, c := range []*cobra.Command{card, categories} {
		c.Flags().StringVar(&opts.from, "from", "", "First day of the range (YYYY-MM-DD)")
		c.Flags().StringVar(&opts.to, "to", "", "Last day of the range (YYYY-MM-DD)")
		_ = c.MarkFlagRequired("from")
		_ = c.MarkFlagRequired("to")
	}

	forecast := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast overall income and units per category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cli.logger.WithContext(cmd.Context())
			rt, err := cli.newRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			bundle, err := rt.service.PredictionBundle(ctx)
			if err != nil {
				return err
			}
			return NewReporter(cmd.OutOrStdout(), opts.asJSON).Forecast(bundle)
		},
	}

	cmd.AddCommand(card, categories, forecast)
	return cmd
}

func (cli *CLI) dateRange(opts *reportOptions) (time.Time, time.Time, error) {
	loc, err := cli.cfg.Location()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start, err := utils.ParseDate(opts.from, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --from: %w", err)
	}
	end, err := utils.ParseDate(opts.to, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --to: %w", err)
	}
	return start, end, nil
}
