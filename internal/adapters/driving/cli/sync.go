package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-river/internal/core/domain"
	"github.com/custodia-labs/sercha-river/internal/core/services"
)

var syncCmd = &cobra.Command{
	Use:   "sync [feed-id]",
	Short: "Run a single sync cycle",
	Long: `Runs exactly one sync cycle and exits.
If a feed ID is provided, only that feed is synchronised.
Otherwise, all feeds are synchronised in parallel.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime(configPath)
	if err != nil {
		return err
	}
	defer rt.Close()

	feeds, err := selectFeeds(rt.config, args)
	if err != nil {
		return err
	}

	results, err := services.RunOnce(cmd.Context(), feeds, rt.factory, rt.sink, rt.checkpoints)
	for _, r := range results {
		printResult(cmd, r)
	}
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	return nil
}

func printResult(cmd *cobra.Command, r domain.CycleResult) {
	if !r.Success() {
		cmd.Printf("%s: failed: %s\n", r.FeedID, r.Error)
		return
	}
	cmd.Printf("%s: %d added, %d deleted, %d skipped, %d failed in %s\n",
		r.FeedID, r.Stats.Added, r.Stats.Deleted, r.Stats.Skipped, r.Stats.Failed,
		r.Duration().Round(time.Millisecond))
}
