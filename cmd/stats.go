package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"bike-counter/api/seattle"
	"bike-counter/chart"
	"bike-counter/di"
	"bike-counter/models"
	"bike-counter/server/handlers"
	services "bike-counter/service"
	"bike-counter/util"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the aggregated facts of a month",
	Long: `Fetch one month of counter records and print the total rides, the
busiest day, the busiest day of the week and the per-hour totals.

Examples:
  bike-counter stats --month 1 --year 2014
  bike-counter stats --month 1 --year 2014 --json
  bike-counter stats --month 1 --year 2014 --file dump.json`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().Int("month", 0, "month, 1-12")
	statsCmd.Flags().Int("year", 0, "year, e.g. 2014")
	statsCmd.Flags().String("file", "", "aggregate records from a local JSON dump instead of the API")
	statsCmd.Flags().Bool("json", false, "output as JSON")
	_ = statsCmd.MarkFlagRequired("month")
	_ = statsCmd.MarkFlagRequired("year")
}

func runStats(cmd *cobra.Command, args []string) error {
	month, _ := cmd.Flags().GetInt("month")
	year, _ := cmd.Flags().GetInt("year")
	file, _ := cmd.Flags().GetString("file")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	q := models.MonthQuery{Month: month, Year: year}
	if month < 1 || month > 12 {
		return fmt.Errorf("invalid --month %d: want 1-12", month)
	}

	provider, closeFn, err := statsProvider(cmd, file)
	if err != nil {
		return err
	}
	defer closeFn()

	stats, err := provider.GetMonthlyStats(cmd.Context(), q)
	switch {
	case errors.Is(err, services.ErrNoData):
		fmt.Fprintln(cmd.OutOrStdout(), handlers.NoDataMessage)
		return nil
	case err != nil:
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(chart.NewMonthlyStatsResponse(stats))
	}
	util.PrintMonthlyStats(cmd.OutOrStdout(), stats)
	return nil
}

// statsProvider aggregates either a local dump or the configured data source.
func statsProvider(cmd *cobra.Command, file string) (handlers.MonthlyStatsProvider, func(), error) {
	if file != "" {
		records, err := util.ReadBikeCountsFromJSON(file)
		if err != nil {
			return nil, nil, err
		}
		api, err := seattle.NewSeattleOpenDataApiClientMock(seattle.WithRecords(records))
		if err != nil {
			return nil, nil, err
		}
		svc := services.NewBikeCountsService(nil, api, clockwork.NewRealClock(), 0, appMetrics(), logger)
		return svc, func() {}, nil
	}

	container, err := di.NewContainer(cmd.Context(), cfg, logger, appMetrics())
	if err != nil {
		return nil, nil, err
	}
	return container.BikeCountsService, func() { container.Close() }, nil
}
