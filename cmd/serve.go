package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bike-counter/di"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard and its API",
	Long: `Serve the static site from the public dir together with the JSON and
chart endpoints. The cache of recent months is warmed every REFRESH_INTERVAL.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx)
}

func serve(ctx context.Context) error {
	container, err := di.NewContainer(ctx, cfg, logger, appMetrics())
	if err != nil {
		return err
	}
	defer closeContainer(container)
	return serveContainer(ctx, container)
}

// serveContainer starts the refresher and serves until ctx is cancelled.
func serveContainer(ctx context.Context, container *di.Container) error {
	if err := container.BikeCountsRefresherService.StartPeriodicJob(cfg.RefreshInterval); err != nil {
		return err
	}
	return container.BikeCounterHttpServer.Start(ctx)
}

func closeContainer(container *di.Container) {
	if err := container.Close(); err != nil {
		logger.Warn("error closing container", zap.Error(err))
	}
}
