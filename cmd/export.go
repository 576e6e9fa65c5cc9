package main

import (
	"fmt"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hearthdata/affordability-cli/internal/export"
	"github.com/hearthdata/affordability-cli/internal/geomatch"
	"github.com/hearthdata/affordability-cli/internal/metrics"
)

var exportYears []int

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export dashboard tables, map layers, and a manifest",
	Long:  "Writes the metro and ZIP tables as JSON, per-year GeoJSON choropleth layers, and a manifest.yaml describing the run. Without --year, layers cover every year in the data.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		ds, cleanup, err := buildDataset(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		metroRows := metrics.AggregateMetros(ds.Observations)
		zipRows := metrics.AggregateZIPs(ds.Observations)

		matcher := geomatch.NewMatcher(ds.Metros, ds.ZIPs, ds.Overrides)
		metroFeatures := matcher.MatchMetros(metroRows)
		zipFeatures := matcher.MatchZIPs(zipRows)

		years := exportYears
		if len(years) == 0 {
			years = dataYears(metroRows)
		}

		w := export.NewWriter(cfg.Export.Dir)
		if err := w.WriteMetroTable(metroRows); err != nil {
			return err
		}
		if err := w.WriteZipTable(zipRows); err != nil {
			return err
		}
		for _, y := range years {
			if err := w.WriteMetroLayer(metroFeatures, y); err != nil {
				return err
			}
			if err := w.WriteZipLayer(zipFeatures, y); err != nil {
				return err
			}
		}
		if err := w.WriteManifest(cfg.Data.Source, len(ds.Observations), len(metroRows), len(zipRows)); err != nil {
			return err
		}

		fmt.Printf("Exported %d metro rows, %d ZIP rows, %d year layers to %s\n",
			len(metroRows), len(zipRows), len(years), cfg.Export.Dir)
		return nil
	},
}

func init() {
	exportCmd.Flags().IntSliceVar(&exportYears, "year", nil, "years to export layers for (default: all)")
	rootCmd.AddCommand(exportCmd)
}

func dataYears(rows []metrics.MetroYear) []int {
	seen := make(map[int]bool)
	for _, r := range rows {
		seen[r.Year] = true
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
