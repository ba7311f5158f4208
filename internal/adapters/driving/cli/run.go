package cli

import (
	"context"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/sercha-river/internal/core/services"
	"github.com/custodia-labs/sercha-river/internal/logger"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Continuously synchronise every configured feed",
	Long: `Runs one sync loop per configured feed until interrupted.
Each loop fetches changes, updates the index, stores its position and then
sleeps for the feed's update_rate. Include and exclude patterns are reloaded
when the config file changes.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	rt, err := openRuntime(configPath)
	if err != nil {
		return err
	}
	defer rt.Close()

	feeds, err := selectFeeds(rt.config, nil)
	if err != nil {
		return err
	}

	scheduler := services.NewScheduler(feeds, rt.factory, rt.sink, rt.checkpoints)
	cmd.Printf("Synchronising %d feed(s). Press Ctrl+C to stop.\n", len(feeds))

	g, ctx := errgroup.WithContext(cmd.Context())
	ctx, cancel := context.WithCancel(ctx)
	g.Go(func() error {
		defer cancel()
		return scheduler.Start(ctx)
	})
	if rt.watch != nil {
		g.Go(func() error {
			if err := rt.watch(ctx, scheduler.UpdateFilters); err != nil {
				logger.Warn("config reload disabled: %v", err)
			}
			return nil
		})
	}

	return g.Wait()
}
