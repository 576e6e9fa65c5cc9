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

var (
	rankYear  int
	rankMetro string
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank metros (or one metro's ZIPs) by affordability",
	Long:  "Prints metros for a year ordered most to least affordable by price-to-income ratio. With --metro, ranks that metro's ZIP codes instead.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		ds, cleanup, err := buildDataset(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		if rankMetro != "" {
			return printZipRanking(metrics.AggregateZIPs(ds.Observations), rankMetro, rankYear)
		}
		return printMetroRanking(metrics.AggregateMetros(ds.Observations), rankYear)
	},
}

func init() {
	rankCmd.Flags().IntVar(&rankYear, "year", 0, "year to rank (required)")
	rankCmd.Flags().StringVar(&rankMetro, "metro", "", "rank ZIP codes within this metro instead")
	_ = rankCmd.MarkFlagRequired("year")
	rootCmd.AddCommand(rankCmd)
}

func printMetroRanking(rows []metrics.MetroYear, year int) error {
	ranked := make([]metrics.MetroYear, 0)
	for _, r := range rows {
		if r.Year == year && r.PTIDefined && r.Total > 0 {
			ranked = append(ranked, r)
		}
	}
	if len(ranked) == 0 {
		return eris.Errorf("rank: no ranked metros for year %d", year)
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Rank < ranked[j].Rank })

	fmt.Printf("=== Metro affordability, %d ===\n", year)
	fmt.Printf("%4s  %-45s %6s  %5s  %s\n", "Rank", "Metro", "PTI", "Pctl", "Band")
	for _, r := range ranked {
		fmt.Printf("%4d  %-45s %6.2f  %4.0f%%  %s\n",
			r.Rank, r.CityFull, r.PTI, r.Percentile*100, r.Band)
	}
	return nil
}

func printZipRanking(rows []metrics.ZipYear, metro string, year int) error {
	key := model.NormalizeCityKey(metro)
	ranked := make([]metrics.ZipYear, 0)
	for _, r := range rows {
		if r.CityKey == key && r.Year == year && r.PTIDefined && r.Total > 0 {
			ranked = append(ranked, r)
		}
	}
	if len(ranked) == 0 {
		return eris.Errorf("rank: no ranked ZIPs for %q in %d", metro, year)
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Rank < ranked[j].Rank })

	fmt.Printf("=== ZIP affordability, %s, %d ===\n", ranked[0].CityFull, year)
	fmt.Printf("%4s  %-7s %6s  %5s  %s\n", "Rank", "ZIP", "PTI", "Pctl", "Band")
	for _, r := range ranked {
		fmt.Printf("%4d  %-7s %6.2f  %4.0f%%  %s\n",
			r.Rank, r.ZIPCode, r.PTI, r.Percentile*100, r.Band)
	}
	return nil
}
