// Package cmd contains the bike-counter CLI commands.
package cmd

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bike-counter/config"
	"bike-counter/observability"
)

var (
	portFlag      string
	publicDirFlag string
	srcDirFlag    string
	envFlag       string

	cfg    *config.Config
	logger *zap.Logger

	metricsOnce sync.Once
	metrics     *observability.Metrics
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bike-counter",
	Short: "Fremont Bridge bike counter dashboard",
	Long: `bike-counter serves a dashboard of the hourly bike counts recorded on
Seattle's Fremont Bridge, aggregated per month from the city's open data API.

Example usage:
  bike-counter serve                       # Serve the dashboard on :3300
  bike-counter build                       # Rebuild public/ from src/
  bike-counter watch                       # Build, rebuild on change, and serve
  bike-counter stats --month 1 --year 2014 # Print the facts of a month`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&portFlag, "port", "", "port to listen on (overrides PORT)")
	rootCmd.PersistentFlags().StringVar(&publicDirFlag, "public-dir", "", "directory of the built site (overrides PUBLIC_DIR)")
	rootCmd.PersistentFlags().StringVar(&srcDirFlag, "src-dir", "", "directory of the front-end sources (overrides SRC_DIR)")
	rootCmd.PersistentFlags().StringVar(&envFlag, "env", "", "dev or prod (overrides APP_ENV)")
}

// initConfig loads the environment configuration and applies flag overrides.
func initConfig(cmd *cobra.Command) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port = portFlag
	}
	if flags.Changed("public-dir") {
		cfg.PublicDir = publicDirFlag
	}
	if flags.Changed("src-dir") {
		cfg.SrcDir = srcDirFlag
	}
	if flags.Changed("env") {
		if envFlag != config.ENV_DEV && envFlag != config.ENV_PROD {
			return fmt.Errorf("invalid --env %q: want %s or %s", envFlag, config.ENV_DEV, config.ENV_PROD)
		}
		cfg.Env = envFlag
	}

	logger, err = observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	logger.Debug("configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("port", cfg.Port),
		zap.String("public_dir", cfg.PublicDir),
		zap.String("src_dir", cfg.SrcDir))
	return nil
}

// appMetrics registers the collectors once per process.
func appMetrics() *observability.Metrics {
	metricsOnce.Do(func() {
		metrics = observability.NewMetrics()
	})
	return metrics
}
