package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bike-counter/di"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Rebuild the public dir from the front-end sources",
	Long: `Clean the public dir and copy the front-end sources into it:
scripts into js/, stylesheets and source maps into css/, library fonts into
fonts/, images into img/ and index.html at the root.`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	container, err := di.NewContainer(cmd.Context(), cfg, logger, appMetrics())
	if err != nil {
		return err
	}
	defer closeContainer(container)

	report, err := container.AssetBuilder.Build()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, f := range report.Files {
		fmt.Fprintln(out, f)
	}
	logger.Debug("build report", zap.Int("copies", report.Copies))
	return nil
}
