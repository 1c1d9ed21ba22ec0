// Package cli wires the meshwatch commands together: configuration
// loading, transport construction, and rendering live here so the domain
// packages stay free of cobra.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meshwatch/meshwatch/internal/config"
)

// Persistent flags
var (
	configFlag string
	debugFlag  bool
)

// rootCmd is the base command all subcommands hang off.
var rootCmd = &cobra.Command{
	Use:   "meshwatch",
	Short: "Collect telemetry from a radio mesh",
	Long: `meshwatch polls every configured mesh node for telemetry through a
locally attached radio, appends the results to a CSV log, and keeps a
deduplicated registry of every node the mesh has ever reported.

Run 'meshwatch collect' for a single collection cycle, or
'meshwatch run' to collect continuously on an interval.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debugFlag {
			os.Setenv("MESHWATCH_DEBUG", "1") //nolint:errcheck
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to config file (default: search for .meshwatch.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging to stderr")
}

// Execute runs the root command. Errors are printed and mapped to a
// non-zero exit code here so main stays a one-liner.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig finds, loads, and validates the config for a command run.
func loadConfig() (*config.Config, error) {
	path, err := config.Find(configFlag)
	if err != nil {
		return nil, err
	}

	var cfg *config.Config
	if path == "" {
		cfg = config.DefaultConfig()
	} else {
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
