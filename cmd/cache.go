package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bike-counter/di"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or evict cached months",
	Long: `Work with the months cached in Redis. With REDIS_ENABLED unset the cache
lives in process memory and these commands only see an empty cache.`,
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the cached months",
	RunE:  runCacheList,
}

var cacheEvictCmd = &cobra.Command{
	Use:     "evict",
	Short:   "Drop one cached month",
	Example: `  bike-counter cache evict --month 1 --year 2014`,
	RunE:    runCacheEvict,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheListCmd, cacheEvictCmd)

	cacheEvictCmd.Flags().Int("month", 0, "month, 1-12")
	cacheEvictCmd.Flags().Int("year", 0, "year, e.g. 2014")
	_ = cacheEvictCmd.MarkFlagRequired("month")
	_ = cacheEvictCmd.MarkFlagRequired("year")
}

func runCacheList(cmd *cobra.Command, args []string) error {
	container, err := di.NewContainer(cmd.Context(), cfg, logger, appMetrics())
	if err != nil {
		return err
	}
	defer closeContainer(container)

	months, err := container.BikeCountsDao.CachedMonths(cmd.Context())
	if err != nil {
		return err
	}
	for _, m := range months {
		fmt.Fprintf(cmd.OutOrStdout(), "%04d-%02d\n", m.Year, m.Month)
	}
	return nil
}

func runCacheEvict(cmd *cobra.Command, args []string) error {
	month, _ := cmd.Flags().GetInt("month")
	year, _ := cmd.Flags().GetInt("year")
	if month < 1 || month > 12 {
		return fmt.Errorf("invalid --month %d: want 1-12", month)
	}

	container, err := di.NewContainer(cmd.Context(), cfg, logger, appMetrics())
	if err != nil {
		return err
	}
	defer closeContainer(container)

	if err := container.BikeCountsDao.DeleteMonth(cmd.Context(), month, year); err != nil {
		return err
	}
	logger.Info("evicted month", zap.Int("month", month), zap.Int("year", year))
	fmt.Fprintf(cmd.OutOrStdout(), "evicted %04d-%02d\n", year, month)
	return nil
}
