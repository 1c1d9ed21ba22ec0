package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/meshwatch/meshwatch/internal/config"
	mwerrors "github.com/meshwatch/meshwatch/internal/errors"
)

var initForce bool

// initCmd writes a starter config file in the current directory.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .meshwatch.yaml config file",
	Long: `Write a starter configuration to .meshwatch.yaml in the current
directory. Edit it to list your node ids and pick the transport that
matches how the radio is attached.

Examples:
  meshwatch init
  meshwatch init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(initForce, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
}

// configTemplate mirrors config.Config with human-readable durations for
// the generated file.
type configTemplate struct {
	Version   int      `yaml:"version"`
	Nodes     []string `yaml:"nodes"`
	Transport struct {
		Kind   string `yaml:"kind"`
		Port   string `yaml:"port,omitempty"`
		Host   string `yaml:"host,omitempty"`
		Binary string `yaml:"binary"`
	} `yaml:"transport"`
	Timeouts struct {
		Telemetry string `yaml:"telemetry"`
		Nodes     string `yaml:"nodes"`
	} `yaml:"timeouts"`
	Paths struct {
		TelemetryLog string `yaml:"telemetry_log"`
		Registry     string `yaml:"registry"`
		Diagnostics  string `yaml:"diagnostics"`
	} `yaml:"paths"`
	Lock struct {
		Enabled bool   `yaml:"enabled"`
		Dir     string `yaml:"dir"`
		Timeout string `yaml:"timeout"`
		Stale   string `yaml:"stale"`
	} `yaml:"lock"`
	Interval string `yaml:"interval"`
	Retry    string `yaml:"retry"`
}

func initCommand(force bool, out io.Writer) error {
	configPath := filepath.Join(".", config.ConfigFileName)

	if _, err := os.Stat(configPath); err == nil && !force {
		return mwerrors.New(mwerrors.ErrConfig,
			fmt.Sprintf("Config file already exists: %s", configPath),
			"Use --force to overwrite")
	}

	defaults := config.DefaultConfig()

	var tmpl configTemplate
	tmpl.Version = defaults.Version
	tmpl.Nodes = []string{"!9eed0410"}
	tmpl.Transport.Kind = defaults.Transport.Kind
	tmpl.Transport.Binary = defaults.Transport.Binary
	tmpl.Timeouts.Telemetry = defaults.Timeouts.Telemetry.String()
	tmpl.Timeouts.Nodes = defaults.Timeouts.Nodes.String()
	tmpl.Paths.TelemetryLog = defaults.Paths.TelemetryLog
	tmpl.Paths.Registry = defaults.Paths.Registry
	tmpl.Paths.Diagnostics = defaults.Paths.Diagnostics
	tmpl.Lock.Enabled = defaults.Lock.Enabled
	tmpl.Lock.Dir = defaults.Lock.Dir
	tmpl.Lock.Timeout = defaults.Lock.Timeout.String()
	tmpl.Lock.Stale = defaults.Lock.Stale.String()
	tmpl.Interval = defaults.Interval.String()
	tmpl.Retry = defaults.Retry.String()

	data, err := yaml.Marshal(&tmpl)
	if err != nil {
		return mwerrors.WrapWithCode(err, mwerrors.ErrConfig,
			"Failed to serialize config template",
			"This shouldn't happen")
	}

	header := "# meshwatch configuration\n# List the node ids to poll under 'nodes' and set transport.kind to\n# serial, ble, or tcp depending on how the radio is attached.\n"
	if err := os.WriteFile(configPath, append([]byte(header), data...), 0644); err != nil {
		return mwerrors.WrapWithCode(err, mwerrors.ErrConfig,
			fmt.Sprintf("Failed to write %s", configPath),
			"Check directory permissions")
	}

	fmt.Fprintf(out, "Created %s\n", configPath)
	return nil
}
