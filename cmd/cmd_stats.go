// Copyright 2026 The Climata Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/climatehq/climata/analysis"
	"github.com/climatehq/climata/utils"
)

var (
	statsPlace   string
	projectYears int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize temperatures per place",
	Long: `Prints mean, minimum, maximum, and standard deviation of the recorded
temperatures for each place in the dataset. With --place, restricts the
output to one place and optionally projects its temperature trend with
--project.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		db, store, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		if _, err := store.Load(dataPath); err != nil {
			return err
		}

		stats, err := analysis.Statistics(store.DB())
		if err != nil {
			return err
		}

		if statsPlace == "" {
			fmt.Printf("%-40s %10s %10s %10s %10s %12s\n",
				"Place", "Avg", "Min", "Max", "Std", "Readings")

			for _, s := range stats {
				printStatistics(s)
			}

			return nil
		}

		s := analysis.FindPlace(stats, statsPlace)
		if s == nil {
			return fmt.Errorf("unknown place: %s", statsPlace)
		}

		printStatistics(s)

		if projectYears > 0 {
			projection, err := analysis.Project(store.DB(), s.Key, projectYears)
			if err != nil {
				return err
			}

			fmt.Printf("\nTrend: %+.4f °C/year\n", projection.Slope)

			for _, y := range projection.Years {
				fmt.Printf("%d %8.2f\n", y.Year, y.Temperature)
			}
		}

		return nil
	},
}

func printStatistics(s *analysis.PlaceStatistics) {
	fmt.Printf("%-40s %10.2f %10.2f %10.2f %10.2f %12s\n",
		s.Key,
		s.AverageTemperature,
		s.MinTemperature,
		s.MaxTemperature,
		s.Std,
		utils.FormatInt(int64(s.Readings)))
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(&statsPlace, "place", "", `composite place key, e.g. "Paris, France"`)
	statsCmd.Flags().IntVar(&projectYears, "project", 0, "also project the temperature trend this many years ahead (requires --place)")
}
