package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bike-counter/assets"
	"bike-counter/di"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Build, rebuild on source changes, and serve",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Duration("debounce", assets.DefaultDebounce, "quiet period before a rebuild")
}

func runWatch(cmd *cobra.Command, args []string) error {
	debounce, _ := cmd.Flags().GetDuration("debounce")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := di.NewContainer(ctx, cfg, logger, appMetrics())
	if err != nil {
		return err
	}
	defer closeContainer(container)

	builder := container.AssetBuilder
	if _, err := builder.Build(); err != nil {
		return err
	}

	rebuild := func() error {
		_, err := builder.Build()
		return err
	}
	watcher := assets.NewWatcher(cfg.SrcDir, rebuild, debounce, logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return watcher.Run(ctx, nil)
	})
	g.Go(func() error {
		return serveContainer(ctx, container)
	})

	err = g.Wait()
	logger.Info("watch stopped", zap.Error(err))
	return err
}
