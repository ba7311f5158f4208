package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-river/internal/core/domain"
)

var resetCmd = &cobra.Command{
	Use:   "reset <feed-id>",
	Short: "Forget a feed's position so it is fully resynchronised",
	Long: `Deletes the stored position of a feed. The next cycle lists the feed's
root from the beginning and re-sends every file to the index. Documents
already in the index are overwritten in place.`,
	Args: cobra.ExactArgs(1),
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime(configPath)
	if err != nil {
		return err
	}
	defer rt.Close()

	feedID := args[0]
	ctx := cmd.Context()

	if _, err := rt.checkpoints.Load(ctx, feedID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			cmd.Printf("Feed %s has no stored position.\n", feedID)
			return nil
		}
		return fmt.Errorf("loading checkpoint: %w", err)
	}

	if err := rt.checkpoints.Delete(ctx, feedID); err != nil {
		return fmt.Errorf("deleting checkpoint: %w", err)
	}

	cmd.Printf("Position of feed %s cleared. The next cycle resynchronises it from the beginning.\n", feedID)
	return nil
}
