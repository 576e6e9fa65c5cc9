package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hearthdata/affordability-cli/internal/geomatch"
	"github.com/hearthdata/affordability-cli/internal/loader"
	"github.com/hearthdata/affordability-cli/internal/metrics"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load inputs and report dataset coverage",
	Long:  "Reads the housing time series and boundary shapefiles, aggregates the affordability tables, and prints row counts and boundary match coverage.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		ds, cleanup, err := buildDataset(ctx)
		if err != nil {
			if loader.IsDataUnavailable(err) {
				fmt.Println("Data unavailable:", err)
			}
			return err
		}
		defer cleanup()

		metroRows := metrics.AggregateMetros(ds.Observations)
		zipRows := metrics.AggregateZIPs(ds.Observations)

		matcher := geomatch.NewMatcher(ds.Metros, ds.ZIPs, ds.Overrides)
		metroFeatures := matcher.MatchMetros(metroRows)
		zipFeatures := matcher.MatchZIPs(zipRows)

		metroMatched := 0
		for _, f := range metroFeatures {
			if f.Geometry != nil {
				metroMatched++
			}
		}
		zipMatched := 0
		for _, f := range zipFeatures {
			if f.Geometry != nil {
				zipMatched++
			}
		}

		fmt.Println("=== Dataset ===")
		fmt.Printf("Source:           %s\n", cfg.Data.Source)
		fmt.Printf("Observations:     %d\n", len(ds.Observations))
		fmt.Printf("Metro/year rows:  %d\n", len(metroRows))
		fmt.Printf("ZIP/year rows:    %d\n", len(zipRows))
		fmt.Println()
		fmt.Println("=== Boundary coverage ===")
		fmt.Printf("CBSA polygons:    %d\n", len(ds.Metros))
		fmt.Printf("ZCTA polygons:    %d\n", len(ds.ZIPs))
		fmt.Printf("Metros matched:   %d/%d\n", metroMatched, len(metroFeatures))
		fmt.Printf("ZIPs matched:     %d/%d\n", zipMatched, len(zipFeatures))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
}
