package main

import (
	"fmt"
	"os/signal"
	"sort"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/hearthdata/affordability-cli/internal/metrics"
	"github.com/hearthdata/affordability-cli/internal/model"
)

var trendZip string

var trendCmd = &cobra.Command{
	Use:   "trend [metro]",
	Short: "Show a metro or ZIP affordability time series",
	Long:  "Prints the year-by-year price-to-income series with year-over-year changes, plus the 2019-to-2021 shift when both years are present.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if trendZip == "" && len(args) == 0 {
			return eris.New("trend: a metro argument or --zip is required")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		ds, cleanup, err := buildDataset(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		if trendZip != "" {
			zip := model.PadZIP(trendZip)
			series := metrics.ZipPTISeries(metrics.AggregateZIPs(ds.Observations), zip)
			return printTrend("ZIP "+zip, series)
		}

		key := model.NormalizeCityKey(args[0])
		series := metrics.PTISeries(metrics.AggregateMetros(ds.Observations), key)
		return printTrend(args[0], series)
	},
}

func init() {
	trendCmd.Flags().StringVar(&trendZip, "zip", "", "show a ZIP code series instead of a metro")
	rootCmd.AddCommand(trendCmd)
}

func printTrend(label string, series map[int]float64) error {
	if len(series) == 0 {
		return eris.Errorf("trend: no data for %q", label)
	}

	years := make([]int, 0, len(series))
	for y := range series {
		years = append(years, y)
	}
	sort.Ints(years)

	changes := make(map[int]metrics.YoYChange, len(years))
	for _, c := range metrics.YearOverYear(series) {
		changes[c.Year] = c
	}

	fmt.Printf("=== %s ===\n", label)
	fmt.Printf("%6s  %6s  %8s  %s\n", "Year", "PTI", "YoY", "Band")
	for _, y := range years {
		pti := series[y]
		yoy := "     -"
		if c, ok := changes[y]; ok && c.Defined {
			yoy = fmt.Sprintf("%+5.1f%%", c.Pct)
		}
		fmt.Printf("%6d  %6.2f  %8s  %s\n", y, pti, yoy, metrics.Classify(pti))
	}

	if delta, ok := metrics.CovidDelta(series); ok {
		fmt.Println()
		fmt.Printf("2019 -> 2021 shift: %+.1f%%\n", delta)
	}
	return nil
}
