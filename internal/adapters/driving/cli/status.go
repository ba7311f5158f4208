package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-river/internal/core/domain"
	"github.com/custodia-labs/sercha-river/internal/core/ports/driven"
)

const markerWidth = 16

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored position of every feed",
	Long: `Lists each feed with the time of its last successful cycle and the
counters that cycle recorded. Feeds that have never completed a cycle are
shown as "never".`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	rt, err := openRuntime(configPath)
	if err != nil {
		return err
	}
	defer rt.Close()

	rows, err := statusRows(cmd.Context(), rt.config, rt.checkpoints)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		cmd.Println("No feeds configured.")
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("FEED", "LAST SYNC", "ADDED", "DELETED", "SKIPPED", "FAILED", "MARKER").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Rows(rows...)

	cmd.Println(t.String())
	return nil
}

// statusRows lists configured feeds first, then checkpoints of feeds no
// longer in the config.
func statusRows(ctx context.Context, cfg driven.ConfigStore, store driven.CheckpointStore) ([][]string, error) {
	checkpoints, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing checkpoints: %w", err)
	}
	byFeed := make(map[string]domain.Checkpoint, len(checkpoints))
	for _, cp := range checkpoints {
		byFeed[cp.FeedID] = cp
	}

	var rows [][]string
	for _, feed := range cfg.Feeds() {
		cp, ok := byFeed[feed.ID]
		delete(byFeed, feed.ID)
		if !ok {
			rows = append(rows, []string{feed.ID, "never", "-", "-", "-", "-", "-"})
			continue
		}
		rows = append(rows, checkpointRow(cp.FeedID, cp))
	}
	for _, cp := range checkpoints {
		if _, orphan := byFeed[cp.FeedID]; orphan {
			rows = append(rows, checkpointRow(cp.FeedID+" (removed)", cp))
		}
	}
	return rows, nil
}

func checkpointRow(label string, cp domain.Checkpoint) []string {
	lastSync := "never"
	if !cp.LastSync.IsZero() {
		lastSync = humanize.Time(cp.LastSync)
	}
	return []string{
		label,
		lastSync,
		humanize.Comma(int64(cp.Stats.Added)),
		humanize.Comma(int64(cp.Stats.Deleted)),
		humanize.Comma(int64(cp.Stats.Skipped)),
		humanize.Comma(int64(cp.Stats.Failed)),
		shorten(cp.Marker, markerWidth),
	}
}

func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
