// Package cli provides the command-line interface for sercha-river.
package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-river/internal/logger"
)

// version is reported by the version command. Set by SetVersion.
var version = "dev"

// Persistent flags.
var (
	configPath string
	verbose    bool
	logFile    string
)

// logCloser closes the rotated log file opened by --log-file.
var logCloser io.Closer

var rootCmd = &cobra.Command{
	Use:   "sercha-river",
	Short: "Mirror Dropbox folders into a search index",
	Long: `sercha-river follows the Dropbox change feed of each configured feed and
keeps a search index in step with it. Only changes since the last stored
position are fetched, so a restart resumes where the previous run stopped.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if logCloser != nil {
			_ = logCloser.Close()
			logCloser = nil
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ~/.sercha-river/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs to this file, rotated by size")
}

func setupLogging(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if logFile != "" {
		logCloser = logger.SetFile(logFile)
	}
	logger.Install()
	return nil
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
