// Package cmd implements the airsync command-line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/campgroundfyi/airsync/internal/config"
	"github.com/campgroundfyi/airsync/pkg/logging"
)

var (
	flagVerbose bool
	flagQuiet   bool
	flagJSON    bool
)

// rootCmd is the base command for airsync.
var rootCmd = &cobra.Command{
	Use:   "airsync",
	Short: "Synchronize deduplication results with a remote record store",
	Long: `airsync reconciles duplicate-cluster results against a remote tabular
record store: it updates each cluster's primary record with merged data and
removes the remaining duplicates, preserving comments and history on the
primary.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		configureLogging()
	},
}

// Execute runs the CLI.
func Execute(version, commit string) error {
	rootCmd.Version = fmt.Sprintf("%s (%s)", version, commit)
	if err := rootCmd.Execute(); err != nil {
		logging.Err(err).Msg("Command failed")
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "only log warnings and errors")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "log in JSON format")
}

// configureLogging applies the global logging flags.
func configureLogging() {
	var logger zerolog.Logger
	if flagJSON {
		logger = logging.NewJSON(os.Stderr)
	} else {
		logger = logging.NewConsole()
	}

	switch {
	case flagVerbose:
		logger = logger.Level(zerolog.DebugLevel)
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case flagQuiet:
		logger = logger.Level(zerolog.WarnLevel)
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	logging.SetDefault(logger)
}

// loadConfig loads and returns the run configuration.
func loadConfig() (*config.Config, error) {
	return config.Load()
}
